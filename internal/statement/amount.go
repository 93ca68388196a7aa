package statement

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Both '.' and ',' are thousands separators; amounts are whole currency units.
var amountStripper = strings.NewReplacer("$", "", ".", "", ",", "")

// parseAmount reads a charge or deposit cell. Anything without a leading
// integer yields zero, as do date and boolean cells.
func parseAmount(c Cell) decimal.Decimal {
	if c.Kind != KindString && c.Kind != KindNumber {
		return decimal.Zero
	}
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, c.Text())
	return leadingInt(amountStripper.Replace(s))
}

// leadingInt parses an optional sign followed by digits, ignoring whatever
// follows.
func leadingInt(s string) decimal.Decimal {
	neg := false
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s[start:i])
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return d.Neg()
	}
	return d
}
