// Package store provides SQLite-backed run history for jafar.
//
// A run is stored as one row in runs, carrying the outcome counts, and one
// row in results per suite or test that finished, in the order they
// finished.
//
// # Ordering
//
//   - Runs are listed newest first. IDs are UUIDv7 so they sort by creation
//     time even when two runs share a timestamp.
//   - Results are always read ORDER BY seq ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
