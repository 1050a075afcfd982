package export

import (
	"errors"
	"fmt"

	"github.com/c360studio/codatagen/codata"
)

// ErrNilRevision is returned when an emitter is given no revision set.
var ErrNilRevision = errors.New("nil revision set")

// HeaderEmitter renders a revision as a C++ header. Each constant becomes a
// class template whose value(), uncertainty() and precision() return the
// catalog numbers as constexpr literals converted to the template type.
type HeaderEmitter struct{}

// NewHeaderEmitter creates a header emitter.
func NewHeaderEmitter() *HeaderEmitter {
	return &HeaderEmitter{}
}

// Format returns FormatHeader.
func (e *HeaderEmitter) Format() Format {
	return FormatHeader
}

// Emit renders the header for set.
func (e *HeaderEmitter) Emit(set *codata.RevisionSet, ns Namespace) ([]byte, error) {
	if set == nil {
		return nil, ErrNilRevision
	}

	w := NewCppWriter()
	guard := ns.Guard()

	w.WriteComment(generatedNotice)
	w.WriteBlank()
	w.WriteLinef("#ifndef %s", guard)
	w.WriteLinef("#define %s", guard)
	w.WriteBlank()
	w.WriteLine("#include <cmath>")
	w.WriteLine("#include <type_traits>")
	w.WriteBlank()
	w.WriteLinef("namespace %s {", ns.Org)
	w.WriteBlank()
	w.WriteLinef("namespace %s {", ns.Category)
	w.WriteBlank()
	w.WriteComment(
		"Committee on Data (CODATA) of the International Science Council (ISC)",
		"recommended values of fundamental physical constants: "+ns.Label,
		"https://physics.nist.gov/cuu/Constants/",
		"https://physics.nist.gov/cuu/Constants/Table/allascii.txt",
	)
	w.WriteLinef("namespace %s {", ns.Name)
	w.WriteBlank()

	for _, r := range set.Records() {
		e.writeConstant(w, r, ns)
		w.WriteBlank()
	}

	w.WriteLinef("} // namespace %s", ns.Name)
	w.WriteBlank()
	w.WriteLinef("} // namespace %s", ns.Category)
	w.WriteBlank()
	w.WriteLinef("} // namespace %s", ns.Org)
	w.WriteBlank()
	w.WriteLinef("#endif // %s", guard)

	return w.Bytes(), nil
}

func (e *HeaderEmitter) writeConstant(w *CppWriter, r codata.Record, ns Namespace) {
	id := r.Identifier()

	w.WriteDoc(
		fmt.Sprintf(`\brief CODATA recommended value for the %s (%s).`, r.Name(), ns.Label),
		fmt.Sprintf(`\details %s = %s.`, r.Name(), describe(r)),
	)
	if r.Exact() {
		w.WriteDoc(`\note This constant is exact; its uncertainty is zero.`)
	}
	if r.Degenerate() {
		w.WriteDoc(`\note The value is zero, so the relative uncertainty is undefined; precision() returns 0.`)
	}
	w.WriteLinef("template <typename T> struct %s {", id)
	w.Indent()

	accessors := []struct {
		name    string
		brief   string
		details string
		literal string
	}{
		{
			name:    "value",
			brief:   "Returns the constant's value.",
			details: "value = " + withUnit(r.ValueLiteral(), r.Unit()),
			literal: r.ValueLiteral(),
		},
		{
			name:    "uncertainty",
			brief:   "Returns the constant's uncertainty.",
			details: "uncertainty = " + withUnit(r.UncertaintyLiteral(), r.Unit()),
			literal: r.UncertaintyLiteral(),
		},
		{
			name:    "precision",
			brief:   "Returns the constant's precision (i.e., the relative uncertainty).",
			details: "precision = " + r.PrecisionLiteral(),
			literal: r.PrecisionLiteral(),
		},
	}

	for _, a := range accessors {
		w.WriteDoc(
			`\brief `+a.brief,
			`\details `+a.details+".",
			`\code{.cpp}`,
			"// example use",
			"using namespace "+ns.Qualified()+";",
			fmt.Sprintf("double %s = %s<double>::%s();", a.name, id, a.name),
			`\endcode`,
		)
		w.WriteLinef("static inline constexpr T %s() { return static_cast<T>(%s); }", a.name, a.literal)
	}

	w.Dedent()
	w.WriteLine("};")
}
