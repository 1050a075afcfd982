package codata

import (
	"errors"
	"fmt"
)

// Catalog data errors.
var (
	// ErrNonFinite is returned when a value or uncertainty is NaN or infinite.
	ErrNonFinite = errors.New("non-finite number")

	// ErrNegativeUncertainty is returned when an uncertainty is below zero.
	ErrNegativeUncertainty = errors.New("negative uncertainty")

	// ErrEmptyName is returned when a constant has no name.
	ErrEmptyName = errors.New("empty constant name")

	// ErrDuplicateName is returned when a name appears twice in one revision.
	ErrDuplicateName = errors.New("duplicate constant name")
)

// CatalogError reports revision data that is missing, malformed or contains
// an invalid record. Generation of the affected revision is abandoned.
type CatalogError struct {
	Revision string
	Name     string // empty when the error is not tied to a single constant
	Err      error
}

func (e *CatalogError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("catalog %s: %v", e.Revision, e.Err)
	}
	return fmt.Sprintf("catalog %s: constant %q: %v", e.Revision, e.Name, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// IdentifierCollisionError reports two distinct constant names that translate
// to the same identifier within one revision.
type IdentifierCollisionError struct {
	Revision   string
	Identifier string
	First      string
	Second     string
}

func (e *IdentifierCollisionError) Error() string {
	return fmt.Sprintf("revision %s: identifier %q produced by both %q and %q",
		e.Revision, e.Identifier, e.First, e.Second)
}

// DegenerateWarning marks a constant whose value is zero. Its precision is
// reported as 0 instead of the undefined ratio.
type DegenerateWarning struct {
	Revision string
	Name     string
}

func (w *DegenerateWarning) Error() string {
	return fmt.Sprintf("revision %s: constant %q has zero value, precision reported as 0", w.Revision, w.Name)
}

// ErrNoConstants is returned when a revision's catalog holds no records.
var ErrNoConstants = errors.New("catalog has no constants")
