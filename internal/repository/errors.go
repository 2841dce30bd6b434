package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when inserting a user whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)
