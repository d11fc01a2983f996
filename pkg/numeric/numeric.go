// Package numeric centralizes the lenient number handling used by every
// read-side derivation: bad input degrades to zero instead of failing.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Float dereferences v, treating nil and non-finite values as 0.
func Float(v *float64) float64 {
	if v == nil {
		return 0
	}
	return Finite(*v)
}

// FloatOr dereferences v, using def when v is nil or non-finite.
func FloatOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Finite(def)
	}
	return *v
}

// Sum adds values with decimal precision so that 0.1+0.2 stays 0.3.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(Finite(v)))
	}
	out, _ := total.Float64()
	return Finite(out)
}

// Sub returns a-b with decimal precision.
func Sub(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(Finite(a)).Sub(decimal.NewFromFloat(Finite(b))).Float64()
	return Finite(out)
}

// Mul returns a*b with decimal precision.
func Mul(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(Finite(a)).Mul(decimal.NewFromFloat(Finite(b))).Float64()
	return Finite(out)
}

// Percent applies a percentage adjustment: base * (1 + pct/100).
func Percent(base, pct float64) float64 {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(Finite(pct)).Div(decimal.NewFromInt(100)))
	out, _ := decimal.NewFromFloat(Finite(base)).Mul(factor).Float64()
	return Finite(out)
}

// Coerce converts an untrusted JSON value into a finite number.
// Strings accept "1234.5", "1.234,50" and "1,234.50"; notation that
// could mean two different amounts is refused.
func Coerce(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return Coerce(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return Coerce(f)
	case string:
		return parseString(n)
	default:
		return 0, false
	}
}

func parseString(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	s, ok := normalizeSeparators(s)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(sign+s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeSeparators rewrites an unsigned amount as "1234.5". When both
// ',' and '.' appear the rightmost is the decimal mark and the other must
// group digits in threes. A lone dot followed by exactly three digits
// ("1.234") reads differently in Italian and English notation and is
// rejected, as is any repeated decimal mark.
func normalizeSeparators(s string) (string, bool) {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var intPart, frac string
	hasDecimal := true
	switch {
	case lastComma >= 0 && lastDot >= 0:
		dec, group := ",", "."
		if lastDot > lastComma {
			dec, group = ".", ","
		}
		if strings.Count(s, dec) != 1 {
			return "", false
		}
		intPart, frac, _ = strings.Cut(s, dec)
		digits, ok := ungroup(intPart, group)
		if !ok {
			return "", false
		}
		intPart = digits
	case lastComma >= 0:
		if strings.Count(s, ",") != 1 {
			return "", false
		}
		intPart, frac, _ = strings.Cut(s, ",")
	case lastDot >= 0:
		if strings.Count(s, ".") != 1 {
			return "", false
		}
		intPart, frac, _ = strings.Cut(s, ".")
		if len(frac) == 3 && isGroupHead(intPart) {
			return "", false
		}
	default:
		intPart, hasDecimal = s, false
	}

	if !isDigits(intPart) || (hasDecimal && !isDigits(frac)) {
		return "", false
	}
	if !hasDecimal {
		return intPart, true
	}
	return intPart + "." + frac, true
}

// ungroup strips sep from a thousands-grouped integer such as "1.234.567".
func ungroup(s, sep string) (string, bool) {
	parts := strings.Split(s, sep)
	if !isGroupHead(parts[0]) && len(parts) > 1 {
		return "", false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || !isDigits(p) {
			return "", false
		}
	}
	return strings.Join(parts, ""), true
}

// isGroupHead reports whether s can open a thousands-grouped integer.
func isGroupHead(s string) bool {
	return len(s) >= 1 && len(s) <= 3 && s[0] != '0' && isDigits(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
