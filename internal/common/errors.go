package common

import "errors"

var (
	// ErrInvalidResponse is returned when the server answered with a success
	// status but the payload lacks a required field (token or user).
	ErrInvalidResponse = errors.New("Invalid response")

	// Upload validation errors.
	ErrNoFiles = errors.New("add at least one file")
	ErrNotFile = errors.New("not a regular file")
)
