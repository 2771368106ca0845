// Package session implements the review session state machine: it holds the
// ordered queue of words being reviewed, collects the reviewer's judgments,
// runs each through the scheduler and hands the resulting schedule states to
// storage in the background.
package session
