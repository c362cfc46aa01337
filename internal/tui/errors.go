package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// errQuit ends the session loop without an error.
	errQuit = errors.New("tui: quit")
)
