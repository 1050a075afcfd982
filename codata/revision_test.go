package codata

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord("2018", "speed of light in vacuum", 299792458.0, 0.0, "m s^-1", Translator{})
	require.NoError(t, err)

	assert.Equal(t, "speed_of_light_in_vacuum", rec.Identifier())
	assert.Equal(t, "m s^-1", rec.Unit())
	assert.True(t, rec.Exact())
	assert.False(t, rec.Degenerate())
	assert.Equal(t, 0.0, rec.Precision())
	assert.Equal(t, "0.0", rec.PrecisionLiteral())
	assert.Equal(t, "299792458.0", rec.ValueLiteral())
}

func TestNewRecord_LatticeSpacing(t *testing.T) {
	rec, err := NewRecord("2002", "{220} lattice spacing of silicon", 1.92e-10, 1e-18, "m", Translator{})
	require.NoError(t, err)

	assert.Equal(t, "lattice_spacing_of_silicon_220", rec.Identifier())
	assert.InDelta(t, 1e-18/1.92e-10, rec.Precision(), 1e-24)
}

func TestRecord_PrecisionUsesFloat64Literals(t *testing.T) {
	// A float32 conversion of both operands would underflow to 0/0.
	rec, err := NewRecord("2002", "atomic unit of 1st hyperpolarizablity", 3.20636151e-53, 2.8e-60, "C^3 m^3 J^-2", Translator{})
	require.NoError(t, err)

	assert.Equal(t, math.Abs(2.8e-60/3.20636151e-53), rec.Precision())
	assert.Equal(t, FormatLiteral(math.Abs(2.8e-60/3.20636151e-53)), rec.PrecisionLiteral())
	assert.False(t, math.IsNaN(float64(float32(rec.Precision()))))
}

func TestRecord_NegativeValue(t *testing.T) {
	rec, err := NewRecord("2006", "Sackur-Tetrode constant (1 K, 100 kPa)", -1.1517047, 4.4e-06, "", Translator{})
	require.NoError(t, err)

	assert.Greater(t, rec.Precision(), 0.0)
	assert.Equal(t, "", rec.Unit())
}

func TestRecord_Degenerate(t *testing.T) {
	rec, err := NewRecord("x", "null constant", 0, 1e-3, "", Translator{})
	require.NoError(t, err)

	assert.True(t, rec.Degenerate())
	assert.Equal(t, 0.0, rec.Precision())
	assert.Equal(t, "0.0", rec.PrecisionLiteral())
}

func TestNewRecord_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		constant    string
		value       float64
		uncertainty float64
		wantErr     error
	}{
		{"nan value", "a", math.NaN(), 0, ErrNonFinite},
		{"infinite value", "a", math.Inf(1), 0, ErrNonFinite},
		{"infinite uncertainty", "a", 1, math.Inf(-1), ErrNonFinite},
		{"precision overflow", "tiny", 1e-300, 1e10, ErrNonFinite},
		{"negative uncertainty", "a", 1, -1, ErrNegativeUncertainty},
		{"empty name", "  ", 1, 0, ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord("2010", tt.constant, tt.value, tt.uncertainty, "", Translator{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var catErr *CatalogError
			require.True(t, errors.As(err, &catErr))
			assert.Equal(t, "2010", catErr.Revision)
		})
	}
}

func TestNewRevisionSet_SortedAndKeyed(t *testing.T) {
	entries := []Entry{
		{Name: "speed of light in vacuum", Value: 299792458, Unit: "m s^-1"},
		{Name: "Avogadro constant", Value: 6.02214076e+23, Unit: "mol^-1"},
		{Name: "electron mass", Value: 9.1093837015e-31, Uncertainty: 2.8e-40, Unit: "kg"},
	}

	set, err := NewRevisionSet("2018", entries, Translator{})
	require.NoError(t, err)

	assert.Equal(t, "2018", set.Label())
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"Avogadro_constant", "electron_mass", "speed_of_light_in_vacuum"}, set.Identifiers())

	rec, ok := set.Lookup("electron_mass")
	require.True(t, ok)
	assert.Equal(t, 9.1093837015e-31, rec.Value())

	_, ok = set.Lookup("proton_mass")
	assert.False(t, ok)

	// Records returns a copy.
	records := set.Records()
	records[0] = Record{}
	assert.Equal(t, "Avogadro constant", set.Records()[0].Name())
}

func TestNewRevisionSet_OrderIndependent(t *testing.T) {
	a := []Entry{{Name: "b", Value: 2}, {Name: "a", Value: 1}, {Name: "c", Value: 3}}
	b := []Entry{{Name: "c", Value: 3}, {Name: "a", Value: 1}, {Name: "b", Value: 2}}

	setA, err := NewRevisionSet("r", a, Translator{})
	require.NoError(t, err)
	setB, err := NewRevisionSet("r", b, Translator{})
	require.NoError(t, err)

	assert.Equal(t, setA.Records(), setB.Records())
}

func TestNewRevisionSet_Collision(t *testing.T) {
	entries := []Entry{
		{Name: "X (Y)", Value: 1},
		{Name: "X Y", Value: 2},
	}

	_, err := NewRevisionSet("2014", entries, Translator{})
	require.Error(t, err)

	var collision *IdentifierCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "2014", collision.Revision)
	assert.Equal(t, "X_Y", collision.Identifier)
	assert.ElementsMatch(t, []string{"X (Y)", "X Y"}, []string{collision.First, collision.Second})
	assert.Contains(t, err.Error(), "X (Y)")
	assert.Contains(t, err.Error(), "X Y")
}

func TestNewRevisionSet_HyphenCollision(t *testing.T) {
	entries := []Entry{
		{Name: "proton-electron ratio", Value: 1},
		{Name: "proton electron ratio", Value: 2},
	}

	// Stripping hyphens keeps the two apart...
	_, err := NewRevisionSet("r", entries, Translator{})
	require.NoError(t, err)

	// ...mapping them to underscores does not.
	_, err = NewRevisionSet("r", entries, Translator{Hyphen: HyphenUnderscore})
	var collision *IdentifierCollisionError
	assert.True(t, errors.As(err, &collision))
}

func TestNewRevisionSet_DuplicateName(t *testing.T) {
	entries := []Entry{{Name: "a", Value: 1}, {Name: "a", Value: 1}}

	_, err := NewRevisionSet("2002", entries, Translator{})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestNewRevisionSet_Empty(t *testing.T) {
	_, err := NewRevisionSet("2002", nil, Translator{})
	assert.ErrorIs(t, err, ErrNoConstants)
}

func TestNewRevisionSet_InvalidRecord(t *testing.T) {
	entries := []Entry{{Name: "ok", Value: 1}, {Name: "bad", Value: math.NaN()}}

	_, err := NewRevisionSet("2006", entries, Translator{})
	var catErr *CatalogError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, "bad", catErr.Name)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestRevisionSet_Warnings(t *testing.T) {
	entries := []Entry{{Name: "zero", Value: 0, Uncertainty: 1}, {Name: "one", Value: 1}}

	set, err := NewRevisionSet("r", entries, Translator{})
	require.NoError(t, err)

	warnings := set.Warnings()
	require.Len(t, warnings, 1)
	var degenerate *DegenerateWarning
	require.True(t, errors.As(warnings[0], &degenerate))
	assert.Equal(t, "zero", degenerate.Name)
}
