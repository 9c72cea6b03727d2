package errors

import "errors"

var (
	ErrEnvelopeDecode = errors.New("outbox envelope decode failed")
)
