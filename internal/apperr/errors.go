// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	// ErrNotFound signals that a requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals an optimistic-concurrency checksum mismatch.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists signals a create targeting an occupied path.
	ErrAlreadyExists = errors.New("already exists")
)
