package repository

import "errors"

var (
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a create collides with the unique email constraint.
	ErrEmailTaken = errors.New("email already exists")
)
