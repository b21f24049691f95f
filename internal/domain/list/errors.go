package list

import "errors"

var (
	// ErrListNotFound indicates the list doesn't exist.
	ErrListNotFound = errors.New("list not found")
	// ErrInvalidInput indicates invalid list input.
	ErrInvalidInput = errors.New("invalid list input")
)
