package card

import "errors"

var (
	// ErrCardNotFound indicates the card doesn't exist.
	ErrCardNotFound = errors.New("card not found")
	// ErrInvalidInput indicates invalid card input.
	ErrInvalidInput = errors.New("invalid card input")
)
