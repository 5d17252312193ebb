package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a unique field (username, title) is already taken.
	ErrConflict = errors.New("already exists")
	// ErrValidation indicates request input failed a domain constraint.
	ErrValidation = errors.New("invalid input")
)
