package service

import "errors"

// Sentinel errors surfaced to the HTTP layer. Handlers translate them with
// errors.Is; everything else maps to an internal error.
var (
	// ErrValidation marks malformed or missing input, rejected before any
	// store or file mutation.
	ErrValidation = errors.New("validation failed")
	// ErrPasswordMismatch reports a failed current-password check. Distinct
	// from validation so clients can tell a wrong password from a bad payload.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrStorageFailure wraps file store read/write/delete failures.
	ErrStorageFailure = errors.New("file storage failure")
)
