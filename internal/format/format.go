// Package format holds display formatting helpers for USD amounts and
// percentages shown on agent cards and wallet views.
package format

import (
	"math"
	"strconv"
	"strings"
)

// USD renders an amount as a dollar string with grouped thousands and
// exactly two fraction digits, e.g. 1234.5 -> "$1,234.50". Negative
// amounts carry the sign before the dollar symbol. NaN and infinities
// render as "$0.00"; they carry no displayable amount.
func USD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	out := groupThousands(s[:dot]) + s[dot:]
	if neg {
		return "-$" + out
	}
	return "$" + out
}

// Percent renders a percentage with two fraction digits and a % suffix.
// The sign of the value is preserved, e.g. -16.666 -> "-16.67%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
