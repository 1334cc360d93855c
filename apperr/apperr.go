// Package apperr defines the three error kinds the HTTP layer
// distinguishes: bad input, missing record, failed collaborator.
package apperr

import "errors"

var (
	// ErrValidation marks requests rejected before any side effect.
	ErrValidation = errors.New("validation")
	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a failed or unparsable external call; the
	// request is aborted with no partial write.
	ErrUpstream = errors.New("upstream failure")
)

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsUpstream(err error) bool   { return errors.Is(err, ErrUpstream) }
