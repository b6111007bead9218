package terminal

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("terminal: aborted")
	// ErrDeclined is returned when the user chose not to submit. The draft is
	// kept so the session can be resumed later.
	ErrDeclined = errors.New("terminal: submission declined")
)
