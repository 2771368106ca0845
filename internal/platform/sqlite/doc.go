// Package sqlite provides SQLite implementations of the progress and list
// stores defined in internal/store. It uses the pure Go modernc.org/sqlite
// driver, so it needs no cgo and backs local development as well as the
// store tests. Timestamps are kept as unix seconds in UTC.
package sqlite
