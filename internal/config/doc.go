// Package config loads jafar's optional .jafar.yaml project file.
//
// Values are layered: built-in defaults first, then the file, then whatever
// flags the user set explicitly on the command line.
package config
