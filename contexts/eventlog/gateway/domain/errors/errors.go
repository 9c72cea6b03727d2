package errors

import "errors"

var (
	ErrValidation          = errors.New("validation_error")
	ErrIdempotencyConflict = errors.New("idempotency_conflict")
	ErrNotFound            = errors.New("event_not_found")
	ErrInternal            = errors.New("internal_error")
)
