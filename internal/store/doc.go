// Package store provides the SQLite-backed session journal.
//
// The journal is an append-only log with two tables:
//   - actions: every action applied by the engine, user-dispatched or internal
//   - outcomes: the single outcome recorded for each action
//
// Records are keyed by session token and ordered by the engine's logical
// seq, never by wall-clock time. Ids are content-addressed (see
// internal/ir/hash.go), so writing the same record twice is a no-op.
//
// The journal is diagnostic. It records what a session did so that it can
// be traced and replayed; it never stores orders.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Path ":memory:" opens a private in-memory journal that disappears with the
// process.
package store
