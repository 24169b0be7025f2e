package store

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by revision-guarded upserts when a
	// concurrent writer advanced the row first.
	ErrVersionConflict = errors.New("version conflict")

	// ErrAlreadyPromoted is returned when a promotion targets a claim
	// that is already immutable.
	ErrAlreadyPromoted = errors.New("claim already promoted")
)
