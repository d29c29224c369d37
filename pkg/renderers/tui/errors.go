package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSelection is returned by drivers when a select prompt ends without
	// a valid choice.
	ErrNoSelection = errors.New("tui: no option selected")
)
