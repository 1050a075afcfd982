// Package codata models catalog revisions of physical constants.
//
// A catalog revision is a set of named constants, each with a value, a unit
// and a standard uncertainty. NewRevisionSet validates the raw entries,
// derives each constant's identifier with a Translator and rejects
// revisions where two names map to the same identifier. The resulting
// RevisionSet is immutable and is what every emitter renders from.
//
// Relative uncertainty (precision) is computed in float64 from the catalog
// numbers. A zero value leaves it undefined; such records are marked
// degenerate and report a precision of 0.
package codata
