package export_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codatagen/codata"
	"github.com/c360studio/codatagen/export"
)

func sampleSet(t *testing.T) *codata.RevisionSet {
	t.Helper()
	set, err := codata.NewRevisionSet("2018", []codata.Entry{
		{Name: "speed of light in vacuum", Value: 299792458, Uncertainty: 0, Unit: "m s^-1"},
		{Name: "{220} lattice spacing of silicon", Value: 1.920155716e-10, Uncertainty: 3.2e-18, Unit: "m"},
		{Name: "alpha particle-electron mass ratio", Value: 7294.29954142, Uncertainty: 2.4e-7},
	}, codata.Translator{})
	require.NoError(t, err)
	return set
}

func TestNamespace(t *testing.T) {
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	assert.Equal(t, "codata_2018", ns.Name)
	assert.Equal(t, "triumf::constants::codata_2018", ns.Qualified())
	assert.Equal(t, "TRIUMF_CONSTANTS_CODATA_2018_HPP", ns.Guard())
	assert.Equal(t, "CODATA_2018", ns.TestModule())
	assert.Equal(t, "triumf/constants/codata_2018.hpp", ns.IncludePath())
	assert.Equal(t, "include/triumf/constants/codata_2018.hpp", strings.ReplaceAll(ns.HeaderPath("include"), "\\", "/"))
	assert.Equal(t, "tests/codata_2018.cpp", strings.ReplaceAll(ns.TestPath("tests"), "\\", "/"))
}

func TestNamespace_NoPrefix(t *testing.T) {
	ns := export.NewNamespace("acme", "phys", "", "2006")
	assert.Equal(t, "2006", ns.Name)
	assert.Equal(t, "acme::phys::2006", ns.Qualified())
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatHeader)
	require.True(t, ok)
	assert.Equal(t, ".hpp", info.Extension)

	info, ok = export.GetFormatInfo(export.FormatBoostTest)
	require.True(t, ok)
	assert.Equal(t, ".cpp", info.Extension)

	_, ok = export.GetFormatInfo("turtle")
	assert.False(t, ok)
}

func TestCppWriter(t *testing.T) {
	w := export.NewCppWriter()
	w.WriteLine("struct a {")
	w.Indent()
	w.WriteLinef("int %s;", "b")
	w.WriteComment("note", "")
	w.Dedent()
	w.Dedent()
	w.WriteLine("};")
	w.WriteBlank()
	w.WriteDoc("doc")

	assert.Equal(t, "struct a {\n  int b;\n  // note\n  //\n};\n\n/// doc\n", w.String())
	assert.Equal(t, w.String(), string(w.Bytes()))
}

func TestHeaderEmitter(t *testing.T) {
	set := sampleSet(t)
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	out, err := export.NewHeaderEmitter().Emit(set, ns)
	require.NoError(t, err)
	src := string(out)

	assert.True(t, strings.HasPrefix(src, "// Code generated by codatagen. DO NOT EDIT.\n"))
	assert.Contains(t, src, "#ifndef TRIUMF_CONSTANTS_CODATA_2018_HPP\n#define TRIUMF_CONSTANTS_CODATA_2018_HPP\n")
	assert.Contains(t, src, "namespace triumf {")
	assert.Contains(t, src, "namespace constants {")
	assert.Contains(t, src, "namespace codata_2018 {")
	assert.True(t, strings.HasSuffix(src, "#endif // TRIUMF_CONSTANTS_CODATA_2018_HPP\n"))

	assert.Contains(t, src, "template <typename T> struct speed_of_light_in_vacuum {")
	assert.Contains(t, src, "static inline constexpr T value() { return static_cast<T>(299792458.0); }")
	assert.Contains(t, src, "static inline constexpr T uncertainty() { return static_cast<T>(0.0); }")
	assert.Contains(t, src, "static inline constexpr T precision() { return static_cast<T>(0.0); }")
	assert.Contains(t, src, "template <typename T> struct lattice_spacing_of_silicon_220 {")
	assert.Contains(t, src, "static inline constexpr T value() { return static_cast<T>(1.920155716e-10); }")
	assert.Contains(t, src, "using namespace triumf::constants::codata_2018;")
	assert.Contains(t, src, `/// \note This constant is exact; its uncertainty is zero.`)
	assert.Contains(t, src, `/// \details speed of light in vacuum = (299792458.0 ± 0.0) m s^-1.`)
	assert.Contains(t, src, `/// \details alpha particle-electron mass ratio = (7294.29954142 ± 2.4e-07).`)
}

func TestHeaderEmitter_SortedStructs(t *testing.T) {
	out, err := export.NewHeaderEmitter().Emit(sampleSet(t), export.NewNamespace("triumf", "constants", "codata", "2018"))
	require.NoError(t, err)

	re := regexp.MustCompile(`(?m)^template <typename T> struct (\w+) \{$`)
	var names []string
	for _, m := range re.FindAllStringSubmatch(string(out), -1) {
		names = append(names, m[1])
	}
	assert.Equal(t, []string{
		"alpha_particleelectron_mass_ratio",
		"speed_of_light_in_vacuum",
		"lattice_spacing_of_silicon_220",
	}, names)
}

func TestHeaderEmitter_Degenerate(t *testing.T) {
	set, err := codata.NewRevisionSet("1998", []codata.Entry{
		{Name: "null constant", Value: 0, Uncertainty: 0},
	}, codata.Translator{})
	require.NoError(t, err)

	out, err := export.NewHeaderEmitter().Emit(set, export.NewNamespace("triumf", "constants", "codata", "1998"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `\note The value is zero`)
	assert.Contains(t, string(out), "static inline constexpr T precision() { return static_cast<T>(0.0); }")
}

func TestEmitters_NilSet(t *testing.T) {
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	_, err := export.NewHeaderEmitter().Emit(nil, ns)
	assert.ErrorIs(t, err, export.ErrNilRevision)

	_, err = export.NewTestEmitter(nil).Emit(nil, ns)
	assert.ErrorIs(t, err, export.ErrNilRevision)
}

func TestTestEmitter(t *testing.T) {
	set := sampleSet(t)
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	e := export.NewTestEmitter(nil)
	assert.Equal(t, export.FormatBoostTest, e.Format())
	assert.Equal(t, export.DefaultTestTypes, e.Types())

	out, err := e.Emit(set, ns)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "#define BOOST_TEST_MODULE CODATA_2018\n#include <boost/test/included/unit_test.hpp>\n")
	assert.Contains(t, src, "typedef std::tuple<float, double, long double> test_types;")
	assert.Contains(t, src, "#include <triumf/constants/codata_2018.hpp>")
	assert.Contains(t, src, "BOOST_AUTO_TEST_CASE_TEMPLATE(speed_of_light_in_vacuum, T, test_types) {")
	assert.Contains(t, src, "  using constant = triumf::constants::codata_2018::speed_of_light_in_vacuum<T>;")
	assert.Contains(t, src, "  BOOST_TEST(constant::value() == static_cast<T>(299792458.0));")
	assert.Contains(t, src, "  BOOST_TEST(constant::precision() == static_cast<T>(0.0));")
	assert.Contains(t, src, "  BOOST_TEST(!std::signbit(constant::precision()));")
}

func TestEmitters_SameIdentifiers(t *testing.T) {
	set := sampleSet(t)
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	header, err := export.NewHeaderEmitter().Emit(set, ns)
	require.NoError(t, err)
	tests, err := export.NewTestEmitter(nil).Emit(set, ns)
	require.NoError(t, err)

	structs := regexp.MustCompile(`struct (\w+) \{`).FindAllStringSubmatch(string(header), -1)
	cases := regexp.MustCompile(`BOOST_AUTO_TEST_CASE_TEMPLATE\((\w+), T, test_types\)`).FindAllStringSubmatch(string(tests), -1)
	require.Len(t, structs, set.Len())
	require.Len(t, cases, set.Len())
	for i := range structs {
		assert.Equal(t, structs[i][1], cases[i][1])
	}
	assert.Equal(t, set.Identifiers(), func() []string {
		var ids []string
		for _, m := range cases {
			ids = append(ids, m[1])
		}
		return ids
	}())
}

func TestEmitters_Deterministic(t *testing.T) {
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")
	emitters := []export.Emitter{export.NewHeaderEmitter(), export.NewTestEmitter(nil)}

	for _, e := range emitters {
		t.Run(string(e.Format()), func(t *testing.T) {
			first, err := e.Emit(sampleSet(t), ns)
			require.NoError(t, err)
			second, err := e.Emit(sampleSet(t), ns)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestTestEmitter_Types(t *testing.T) {
	ns := export.NewNamespace("triumf", "constants", "codata", "2018")

	out, err := export.NewTestEmitter([]string{"float", "double", "long double", "__float128"}).Emit(sampleSet(t), ns)
	require.NoError(t, err)
	assert.Contains(t, string(out), "typedef std::tuple<float, double, long double, __float128> test_types;")

	_, err = export.NewTestEmitter([]string{"float", "double", "double"}).Emit(sampleSet(t), ns)
	assert.ErrorIs(t, err, export.ErrTooFewTestTypes)

	assert.ErrorIs(t, export.ValidateTestTypes([]string{"float", " ", "double"}), export.ErrTooFewTestTypes)
	assert.NoError(t, export.ValidateTestTypes(export.DefaultTestTypes))
}
