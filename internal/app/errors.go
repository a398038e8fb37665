package app

import "errors"

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoSequences indicates the application was started without an
	// alignment to edit.
	ErrNoSequences = errors.New("no sequences to edit")

	// ErrBadSequence indicates a sequence argument that is not NAME=RESIDUES.
	ErrBadSequence = errors.New("sequence must be NAME=RESIDUES")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
