// Package migrations runs the embedded goose migrations of a storage
// backend. Each backend package ships its SQL files and dialect; this
// package drives them and logs every applied version through slog.
package migrations
