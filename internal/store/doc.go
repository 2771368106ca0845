// Package store defines the persistence interfaces the review core depends
// on: reading words together with the reviewer's schedule states, writing
// schedule states back, and reading the user's word lists. Implementations
// live under internal/platform.
package store
