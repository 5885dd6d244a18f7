// Package inspect renders arbitrary values as stable, human-readable strings
// for use in assertion messages.
package inspect
