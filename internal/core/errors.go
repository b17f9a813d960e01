package core

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden operation")

	// ErrNotReady is returned when a derived view has not been computed yet.
	ErrNotReady = errors.New("not ready")
)
