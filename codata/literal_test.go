package codata

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{299792458, "299792458.0"},
		{0, "0.0"},
		{0.0028977685, "0.0028977685"},
		{5.1e-09, "5.1e-09"},
		{1.92e-10, "1.92e-10"},
		{1e-18, "1e-18"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{6.02214076e+23, "6.02214076e+23"},
		{7294.2995365, "7294.2995365"},
		{-1.1517047, "-1.1517047"},
		{3.20636151e-53, "3.20636151e-53"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLiteral(tt.in))
		})
	}
}

func TestFormatLiteral_RoundTrip(t *testing.T) {
	values := []float64{1.0 / 3.0, math.Pi, 1.602176634e-19, 9.1093837015e-31, 1.7599749600425294e-06}
	for _, v := range values {
		got, err := strconv.ParseFloat(FormatLiteral(v), 64)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}
