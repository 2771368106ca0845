// Package domain contains the core vocabulary-review entities: words and the
// lists they belong to, the per-word scheduling state, recall quality ratings
// and the progress summaries derived from them. It is independent of any
// specific storage or delivery mechanism.
package domain
