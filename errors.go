package wowo

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrEmptyPrompt indicates a send was attempted with no prompt text.
	ErrEmptyPrompt = errors.New("empty prompt")

	// ErrEmptyName indicates a login was attempted with no name.
	ErrEmptyName = errors.New("empty name")

	// ErrNotLoggedIn indicates an operation that requires a user.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrBusy indicates a send was attempted while another is in flight.
	ErrBusy = errors.New("send already in flight")
)
