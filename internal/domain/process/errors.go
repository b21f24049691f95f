package process

import "errors"

var (
	// ErrProcessNotFound indicates the process doesn't exist.
	ErrProcessNotFound = errors.New("process not found")
	// ErrDuplicateName indicates another process already uses the name.
	ErrDuplicateName = errors.New("process name already in use")
	// ErrInvalidInput indicates invalid process input.
	ErrInvalidInput = errors.New("invalid process input")
)
