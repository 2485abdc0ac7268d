package service

import "errors"

// ErrNotFound is returned when an address-store operation references an id
// that is not in the book. Normal UI flow never produces this.
var ErrNotFound = errors.New("address not found")

// ErrNoMethodSelected guards order submission: no network call is made
// without a chosen payment method.
var ErrNoMethodSelected = errors.New("no payment method selected")

// ValidationError is a local, recoverable input problem: the user stays on
// the current step and is re-prompted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}
