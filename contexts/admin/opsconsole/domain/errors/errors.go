package errors

import "errors"

var (
	// ErrUnknownLens is returned when a rebuild targets a lens the admin
	// surface does not know how to address.
	ErrUnknownLens = errors.New("unknown lens")
	// ErrUnknownMaterializedView is returned when a refresh targets a view
	// outside the admin surface's fixed allowlist.
	ErrUnknownMaterializedView = errors.New("unknown materialized view")
)
