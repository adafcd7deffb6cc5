// Package store persists the application state. Live state is kept in the
// domain components; this package renders each of them to its own XML
// document on disk and restores them at startup, plus a sqlite archive for
// long-term session history.
//
// Decoding is deliberately tolerant: unknown enum values fall back to
// defaults, records missing their primary key are dropped with a warning,
// and a malformed document leaves the component empty rather than failing
// startup. The documents keep the attribute layout of earlier releases, so
// state files written by them still load.
package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// Component names one persisted state document.
type Component string

const (
	ComponentIdentity  Component = "identity"
	ComponentQuestions Component = "questions"
	ComponentChapters  Component = "chapters"
	ComponentWrongBook Component = "wrongbook"
	ComponentStats     Component = "stats"
	ComponentSessions  Component = "sessions"
	ComponentNotes     Component = "notes"
)
