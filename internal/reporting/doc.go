// Package reporting contains Listeners that turn runner events into terminal
// output, summary statistics and stored result rows.
package reporting
