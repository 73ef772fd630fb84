package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	leadingNumberRe = regexp.MustCompile(`^[\d.]+`)
	unitSuffixRe    = regexp.MustCompile(`[가-힣a-zA-Z]+$`)
)

// ParseQuantity extracts the numeric magnitude from a free-text quantity
// such as "1,234EA" or "5롤". Thousands separators are ignored. Anything
// without a parseable leading number yields zero.
func ParseQuantity(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	prefix := leadingNumberRe.FindString(s)
	if prefix == "" {
		return decimal.Zero
	}
	qty, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return qty
}

// UnitSuffix returns the trailing alphabetic/Hangul run of a quantity
// string ("100EA" -> "EA", "200m" -> "m"), or "" when there is none.
func UnitSuffix(s string) string {
	return unitSuffixRe.FindString(strings.TrimSpace(s))
}
