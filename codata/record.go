package codata

import (
	"math"
	"strings"
)

// Record is one named physical constant of a catalog revision.
// Records are immutable once built by NewRecord.
type Record struct {
	name        string
	identifier  string
	value       float64
	uncertainty float64
	unit        string
}

// NewRecord validates the raw catalog fields and derives the identifier.
// Validation failures are returned as *CatalogError.
func NewRecord(revision, name string, value, uncertainty float64, unit string, tr Translator) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return Record{}, &CatalogError{Revision: revision, Err: ErrEmptyName}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || math.IsNaN(uncertainty) || math.IsInf(uncertainty, 0) {
		return Record{}, &CatalogError{Revision: revision, Name: name, Err: ErrNonFinite}
	}
	if uncertainty < 0 {
		return Record{}, &CatalogError{Revision: revision, Name: name, Err: ErrNegativeUncertainty}
	}
	r := Record{
		name:        name,
		identifier:  tr.Translate(name),
		value:       value,
		uncertainty: uncertainty,
		unit:        strings.TrimSpace(unit),
	}
	// The ratio overflows for tiny values with large uncertainties.
	if math.IsInf(r.Precision(), 0) {
		return Record{}, &CatalogError{Revision: revision, Name: name, Err: ErrNonFinite}
	}
	return r, nil
}

// Name returns the human readable catalog name.
func (r Record) Name() string { return r.name }

// Identifier returns the translated name used for generated definitions.
func (r Record) Identifier() string { return r.identifier }

// Value returns the constant's magnitude.
func (r Record) Value() float64 { return r.value }

// Uncertainty returns the standard uncertainty.
func (r Record) Uncertainty() float64 { return r.uncertainty }

// Unit returns the unit string, possibly empty.
func (r Record) Unit() string { return r.unit }

// Exact reports whether the constant has zero uncertainty.
func (r Record) Exact() bool { return r.uncertainty == 0 }

// Degenerate reports whether the value is zero, which leaves the relative
// uncertainty undefined.
func (r Record) Degenerate() bool { return r.value == 0 }

// Precision returns the relative uncertainty |uncertainty / value| in
// float64. Degenerate records report 0.
func (r Record) Precision() float64 {
	if r.Degenerate() {
		return 0
	}
	return math.Abs(r.uncertainty / r.value)
}

// ValueLiteral returns the value formatted by FormatLiteral.
func (r Record) ValueLiteral() string { return FormatLiteral(r.value) }

// UncertaintyLiteral returns the uncertainty formatted by FormatLiteral.
func (r Record) UncertaintyLiteral() string { return FormatLiteral(r.uncertainty) }

// PrecisionLiteral returns Precision formatted by FormatLiteral.
func (r Record) PrecisionLiteral() string { return FormatLiteral(r.Precision()) }
