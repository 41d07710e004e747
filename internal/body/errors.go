package body

import "errors"

var (
	// ErrNegativeMass rejects a body whose mass is below zero.
	ErrNegativeMass = errors.New("body: negative mass")

	// ErrNegativeRadius rejects a body whose radius is below zero.
	ErrNegativeRadius = errors.New("body: negative radius")

	// ErrNonFinite rejects a body with a NaN or Inf component.
	ErrNonFinite = errors.New("body: non-finite component (NaN or Inf)")

	// ErrUnknownBody is returned for IDs that were never issued or were removed.
	ErrUnknownBody = errors.New("body: unknown or stale id")
)
