// Package engine provides transport adapters for the entity-resolution
// engine's configuration interface.
//
// SQLiteEngine is the default adapter: a local SQLite store holding the
// current configuration document plus saved snapshots keyed by UUID. It
// implements cache.Transport and backs offline administration; a networked
// engine connection would implement the same interface.
//
// Database configuration follows the usual SQLite discipline:
//
//   - WAL mode for concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package engine
