package errors

import "errors"

var (
	ErrUnknownMemoryEventKind = errors.New("unknown memory event kind")
	ErrMalformedPayload       = errors.New("malformed memory event payload")
	ErrDeleteUnknownEMO       = errors.New("memory.item.deleted for an emo never created")
)
