package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/codatagen/codata"
)

// Format identifies a generated artifact kind.
type Format string

const (
	// FormatHeader produces a C++ header of constant definitions.
	FormatHeader Format = "header"

	// FormatBoostTest produces a Boost.Test suite exercising the header.
	FormatBoostTest Format = "boost-test"
)

// FormatInfo provides metadata about an artifact format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatHeader: {
		Name:        FormatHeader,
		Extension:   ".hpp",
		Description: "C++ header with one class template per constant",
	},
	FormatBoostTest: {
		Name:        FormatBoostTest,
		Extension:   ".cpp",
		Description: "Boost.Test suite templated over floating-point types",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Emitter renders one artifact for a revision.
type Emitter interface {
	// Format returns the artifact kind produced.
	Format() Format

	// Emit renders the artifact. Output depends only on set and ns.
	Emit(set *codata.RevisionSet, ns Namespace) ([]byte, error)
}

// CppWriter accumulates C++ source text with two-space indentation.
type CppWriter struct {
	sb     strings.Builder
	indent int
}

// NewCppWriter creates an empty writer.
func NewCppWriter() *CppWriter {
	return &CppWriter{}
}

// Indent increases the indentation of subsequent lines.
func (w *CppWriter) Indent() {
	w.indent++
}

// Dedent decreases the indentation of subsequent lines.
func (w *CppWriter) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// WriteLine writes one indented line.
func (w *CppWriter) WriteLine(s string) {
	if s == "" {
		w.sb.WriteString("\n")
		return
	}
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

// WriteLinef writes one indented, formatted line.
func (w *CppWriter) WriteLinef(format string, args ...any) {
	w.WriteLine(fmt.Sprintf(format, args...))
}

// WriteBlank writes an empty line.
func (w *CppWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// WriteComment writes each line as a "//" comment.
func (w *CppWriter) WriteComment(lines ...string) {
	for _, l := range lines {
		w.WriteLine(strings.TrimRight("// "+l, " "))
	}
}

// WriteDoc writes each line as a "///" Doxygen comment.
func (w *CppWriter) WriteDoc(lines ...string) {
	for _, l := range lines {
		w.WriteLine(strings.TrimRight("/// "+l, " "))
	}
}

// String returns the accumulated source.
func (w *CppWriter) String() string {
	return w.sb.String()
}

// Bytes returns the accumulated source.
func (w *CppWriter) Bytes() []byte {
	return []byte(w.sb.String())
}

// generatedNotice opens every artifact.
const generatedNotice = "Code generated by codatagen. DO NOT EDIT."

// describe renders "(value ± uncertainty) unit" for comments.
func describe(r codata.Record) string {
	return strings.TrimSpace(fmt.Sprintf("(%s ± %s) %s", r.ValueLiteral(), r.UncertaintyLiteral(), r.Unit()))
}

// withUnit appends the unit to a literal when there is one.
func withUnit(literal, unit string) string {
	if unit == "" {
		return literal
	}
	return literal + " " + unit
}
