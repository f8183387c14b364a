package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	// ErrInvalidMove marks a reposition request whose destination is not a
	// valid scope for the entity (missing column, or a column on another
	// board). Rejected before any write.
	ErrInvalidMove = errors.New("domain: invalid move destination")
)
