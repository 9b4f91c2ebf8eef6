package storage

import "errors"

// ErrAborted is returned when the user backs out of an interactive choice.
var ErrAborted = errors.New("aborted")

// ErrNoSelector is returned when a mode switch needs an interactive choice
// but the Storage was built without one.
var ErrNoSelector = errors.New("no selector available")

// Selector supplies the interactive choices ToggleMode sometimes needs:
// picking one of several candidate scopes, and naming a new custom store.
// Implementations live outside this package so storage stays headless.
type Selector interface {
	// Pick asks the user to choose one of the candidate scopes.
	Pick(candidates []Scope) (Scope, error)

	// Name asks the user for the name of a custom store.
	Name(prompt string) (string, error)
}
