package catalog

import "errors"

// Catalog source errors.
var (
	// ErrNotFound is returned when a catalog handle points at nothing.
	ErrNotFound = errors.New("catalog not found")

	// ErrUnknownFormat is returned when no parser handles a catalog file.
	ErrUnknownFormat = errors.New("unknown catalog format")

	// ErrMalformed is returned when catalog content cannot be parsed.
	ErrMalformed = errors.New("malformed catalog")

	// ErrRevisionMismatch is returned when a catalog declares a revision
	// other than the one it was loaded for.
	ErrRevisionMismatch = errors.New("catalog revision mismatch")
)
