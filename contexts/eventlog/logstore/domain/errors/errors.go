package errors

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTenancyViolation = errors.New("tenancy violation")
)
