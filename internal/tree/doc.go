// Package tree holds the suite/test node types and the builder that assembles
// them from nested describe declarations.
//
// Completed root suites are buffered in a Registry under the file that
// declared them, so a loader can take exactly the suites of each discovered
// file.
package tree
