package entity

import "errors"

var (
	// ErrNotFound signals that the requested user record does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken signals a unique-email violation at creation time.
	ErrEmailTaken = errors.New("email already in use")
)
