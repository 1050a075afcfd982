package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/codatagen/codata"
)

// DefaultTestTypes are the floating-point types every test case runs over.
var DefaultTestTypes = []string{"float", "double", "long double"}

// MinTestTypes is the minimum number of distinct types a suite must cover.
const MinTestTypes = 3

// ErrTooFewTestTypes is returned when fewer than MinTestTypes distinct
// types are configured.
var ErrTooFewTestTypes = errors.New("too few test types")

// TestEmitter renders a revision as a Boost.Test suite with one templated
// test case per constant.
type TestEmitter struct {
	types []string
}

// NewTestEmitter creates a test emitter over types. An empty list selects
// DefaultTestTypes.
func NewTestEmitter(types []string) *TestEmitter {
	if len(types) == 0 {
		types = DefaultTestTypes
	}
	return &TestEmitter{types: append([]string(nil), types...)}
}

// Format returns FormatBoostTest.
func (e *TestEmitter) Format() Format {
	return FormatBoostTest
}

// Types returns the parametrised types.
func (e *TestEmitter) Types() []string {
	return append([]string(nil), e.types...)
}

// Emit renders the suite for set.
func (e *TestEmitter) Emit(set *codata.RevisionSet, ns Namespace) ([]byte, error) {
	if set == nil {
		return nil, ErrNilRevision
	}
	if err := ValidateTestTypes(e.types); err != nil {
		return nil, err
	}

	w := NewCppWriter()

	w.WriteComment(generatedNotice)
	w.WriteBlank()
	w.WriteLinef("#define BOOST_TEST_MODULE %s", ns.TestModule())
	w.WriteLine("#include <boost/test/included/unit_test.hpp>")
	w.WriteBlank()
	w.WriteLine("#include <cmath>")
	w.WriteLine("#include <tuple>")
	w.WriteBlank()
	w.WriteLinef("typedef std::tuple<%s> test_types;", strings.Join(e.types, ", "))
	w.WriteBlank()
	w.WriteLinef("#include <%s>", ns.IncludePath())
	w.WriteBlank()

	for _, r := range set.Records() {
		e.writeCase(w, r, ns)
		w.WriteBlank()
	}

	return w.Bytes(), nil
}

func (e *TestEmitter) writeCase(w *CppWriter, r codata.Record, ns Namespace) {
	w.WriteComment(r.Name(), describe(r))
	w.WriteLinef("BOOST_AUTO_TEST_CASE_TEMPLATE(%s, T, test_types) {", r.Identifier())
	w.Indent()

	w.WriteLinef("using constant = %s::%s<T>;", ns.Qualified(), r.Identifier())
	w.WriteLine("BOOST_TEST(std::isfinite(constant::value()));")
	w.WriteLinef("BOOST_TEST(constant::value() == static_cast<T>(%s));", r.ValueLiteral())
	w.WriteLine("BOOST_TEST(std::isfinite(constant::uncertainty()));")
	w.WriteLinef("BOOST_TEST(constant::uncertainty() == static_cast<T>(%s));", r.UncertaintyLiteral())
	w.WriteLine("BOOST_TEST(std::isfinite(constant::precision()));")
	w.WriteLine("BOOST_TEST(!std::signbit(constant::precision()));")
	w.WriteLinef("BOOST_TEST(constant::precision() == static_cast<T>(%s));", r.PrecisionLiteral())

	w.Dedent()
	w.WriteLine("}")
}

// ValidateTestTypes checks that types names at least MinTestTypes
// distinct, non-empty types.
func ValidateTestTypes(types []string) error {
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			return fmt.Errorf("%w: empty type name", ErrTooFewTestTypes)
		}
		seen[t] = true
	}
	if len(seen) < MinTestTypes {
		return fmt.Errorf("%w: %d distinct, need %d", ErrTooFewTestTypes, len(seen), MinTestTypes)
	}
	return nil
}
