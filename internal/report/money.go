package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats a R$ amount with two decimals and thousands separators,
// e.g. "R$ 12,345.67" or "-R$ 80.00".
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "R$ " + groupThousands(d.StringFixed(2))
}

// Thousands formats an axis value as whole thousands, e.g. "-12k".
func Thousands(v float64) string {
	k := decimal.NewFromFloat(v).Div(decimal.NewFromInt(1000)).Truncate(0)
	return groupThousands(k.String()) + "k"
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}
