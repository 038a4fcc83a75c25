// Package journal provides SQLite-backed durable storage for the dispatch
// log.
//
// Every dispatched action becomes one row in an append-only table, keyed
// by a content digest over (token, kind, payload, seq). Writes are
// idempotent: re-appending a record the journal already holds is silently
// ignored, while a different record claiming an existing seq fails the
// UNIQUE(seq) constraint and exposes a divergent history.
//
// All ordering uses the store's logical sequence number, never wall time,
// so a journal replayed through Replay reproduces the exact event stream
// of the original session. Each row also carries the canonical digest of
// the state tree after its reduction, which lets replay verify that the
// reducers still produce the history the journal recorded.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schema changes are tracked through PRAGMA user_version.
package journal
