package numeric

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatTreatsMissingAndNonFiniteAsZero(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	v := 12.5

	assert.Equal(t, 0.0, Float(nil))
	assert.Equal(t, 0.0, Float(&nan))
	assert.Equal(t, 0.0, Float(&inf))
	assert.Equal(t, 12.5, Float(&v))
	assert.Equal(t, 0.4, FloatOr(nil, 0.4))
	assert.Equal(t, 0.4, FloatOr(&nan, 0.4))
}

func TestSumKeepsDecimalPrecision(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 450.0, Sub(1000, 550))
	assert.Equal(t, 36.0, Mul(120, 0.3))
	assert.Equal(t, 110.0, Percent(100, 10))
	assert.Equal(t, 0.0, Sum(math.NaN(), math.Inf(-1)))
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 10.5, want: 10.5, ok: true},
		{in: 3, want: 3, ok: true},
		{in: json.Number("42.1"), want: 42.1, ok: true},
		{in: "1.234,50", want: 1234.5, ok: true},
		{in: "1,234.50", want: 1234.5, ok: true},
		{in: "1.234.567,89", want: 1234567.89, ok: true},
		{in: "-1.200,00", want: -1200, ok: true},
		{in: "0.125", want: 0.125, ok: true},
		{in: "1234", want: 1234, ok: true},
		{in: "1.234", ok: false},
		{in: "1,234,567", ok: false},
		{in: "1.2.3", ok: false},
		{in: "1.5,30", ok: false},
		{in: "1,234.5.0", ok: false},
		{in: "12,", ok: false},
		{in: ",5", ok: false},
		{in: "1e5", ok: false},
		{in: "99.90", want: 99.9, ok: true},
		{in: " € 12,00 ", want: 12, ok: true},
		{in: "abc", want: 0, ok: false},
		{in: "", want: 0, ok: false},
		{in: nil, want: 0, ok: false},
		{in: true, want: 0, ok: false},
		{in: math.NaN(), ok: false},
	}
	for _, tc := range cases {
		got, ok := Coerce(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}
