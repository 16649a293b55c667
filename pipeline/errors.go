// ABOUTME: Sentinel errors for pipeline mutations
// ABOUTME: Callers match these with errors.Is after unwrapping
package pipeline

import "errors"

var (
	// ErrNotFound means a referenced contact or deal id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue means a numeric field is outside its valid domain:
	// a negative deal value or a probability outside [0,100].
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTransition means the deal is already closed_won or
	// closed_lost and can no longer change stage.
	ErrInvalidTransition = errors.New("invalid transition")
)
