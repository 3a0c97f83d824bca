// Package store provides the embedded SQLite album store.
//
// It is the store used when no external service is bound (the None profile)
// and the one the scenario harness runs against. The sibling packages
// relational, keyvalue and document hold the adapters for bound services.
//
// # Tables
//
//   - albums: one row per album, tracks as a JSON array
//   - seed_markers: one row per claimed seed run
//
// # Ordering
//
// FindAll returns albums ORDER BY title, id so listings are stable across
// adapters.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
