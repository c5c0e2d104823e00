// Package store provides the durable local channel for dashboard records.
//
// A record is a single named JSON document, the full serialization of a
// dashboard. Two backends implement the same contract:
//
//   - Store: SQLite (default), one row per record name
//   - Redis: one string key per record name
//
// Both return ErrNotFound for a record that was never written, and both
// overwrite the full document on every Put. There is no partial update and
// no history: the last write wins.
//
// # SQLite configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package store
