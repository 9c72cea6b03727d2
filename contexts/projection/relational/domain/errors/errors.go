package errors

import "errors"

var (
	ErrUnknownEventKind = errors.New("unknown emo event kind")
	ErrMalformedPayload = errors.New("malformed emo event payload")
)
