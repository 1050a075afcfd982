package codata

import (
	"math"
	"strconv"
	"strings"
)

// FormatLiteral renders f as the shortest decimal string that round-trips to
// the same float64. Decimal exponents in [-4, 16) use fixed notation with a
// trailing ".0" for integral values; everything else uses scientific
// notation with a two-digit minimum exponent ("5.1e-09", "6.02214076e+23").
// The output is a valid C++ floating literal for finite inputs.
func FormatLiteral(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}
