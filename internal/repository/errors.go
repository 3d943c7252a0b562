// Package repository provides data access layer implementations for the application.
package repository

import "errors"

// Sentinel errors shared by every storage backend so callers never have to
// know which one is active.
var (
	// ErrNotFound indicates the requested record does not exist (or, for
	// rates, is not yet visible).
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a uniqueness rule would be violated.
	ErrConflict = errors.New("record already exists")
)
