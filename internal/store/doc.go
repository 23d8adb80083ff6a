// Package store provides durable storage for submitted test runs and the
// compliance reports computed from them.
//
// A run is one vendor submission: a cloud provider id (cpid), the wall-time
// the suite took, the set of passed test names, and free-form metadata.
// Reports are stored in their canonical JSON form together with their content
// hash, so a stored report can be compared bit-for-bit against a
// re-evaluation.
//
// Backed by SQLite with WAL mode for concurrent read access. All writes are
// idempotent: re-storing the same run or report is a no-op.
package store
