// Package apperr defines sentinel errors shared across service boundaries.
// The converter itself never produces these: error taxonomy exists only at
// the HTTP/persistence boundary.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
)
