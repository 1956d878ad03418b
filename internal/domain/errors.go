package domain

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when a request value is missing or malformed (e.g. an empty email).
var ErrInvalidInput = errors.New("invalid input")
