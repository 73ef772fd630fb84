package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	lineBreakRe   = regexp.MustCompile(`[\t\r\n]+`)
	hyphenSpaceRe = regexp.MustCompile(`[-\s]+`)
	slashRe       = regexp.MustCompile(`\s*/\s*`)
	openParenRe   = regexp.MustCompile(`\s*\(\s*`)
	closeParenRe  = regexp.MustCompile(`\s*\)\s*`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

// NormalizeName produces the grouping key for a raw item name: lowercase,
// hyphen/whitespace runs collapsed to single spaces, spacing stripped around
// slashes and parentheses. The key is used only for equality grouping and is
// never shown to anyone.
//
// Kept deliberately separate from CleanName: the two overlap, but merging
// them would couple dedup behavior to presentation cleanup.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	n := strings.TrimSpace(name)
	n = lineBreakRe.ReplaceAllString(n, " ")
	n = strings.ToLower(n)
	n = hyphenSpaceRe.ReplaceAllString(n, " ")
	n = slashRe.ReplaceAllString(n, "/")
	n = openParenRe.ReplaceAllString(n, "(")
	n = closeParenRe.ReplaceAllString(n, ")")
	n = multiSpaceRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// CleanName tidies a raw name for display: line breaks, tabs and redundant
// whitespace collapse to single spaces, case and punctuation untouched.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	n := strings.TrimSpace(name)
	n = lineBreakRe.ReplaceAllString(n, " ")
	n = multiSpaceRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// Eligible reports whether a raw name identifies a product at all. Empty
// and single-character lines, and lines starting with an annotation marker
// (* or :), are notes attached to neighbouring items, not products.
func Eligible(rawName string) bool {
	raw := strings.TrimSpace(rawName)
	if raw == "" || utf8.RuneCountInString(raw) <= 1 {
		return false
	}
	if strings.HasPrefix(raw, "*") || strings.HasPrefix(raw, ":") {
		return false
	}
	return true
}

// unitSynonyms maps lowercase unit tokens found in quantity text to the
// canonical unit vocabulary of the products table.
var unitSynonyms = map[string]string{
	"ea":        "EA",
	"pcs":       "EA",
	"pc":        "EA",
	"개":         "EA",
	"m":         "M",
	"미터":        "M",
	"롤":         "롤",
	"roll":      "롤",
	"롤(roll)":   "롤",
	"kg":        "KG",
	"set":       "SET",
	"세트":        "SET",
	"콘":         "콘",
	"콘(cone)":   "콘",
	"장":         "장",
	"매":         "장",
	"본":         "본",
	"box":       "BOX",
	"박스":        "BOX",
}

// DefaultUnit is used when a group's items carry no recognizable unit.
const DefaultUnit = "EA"

// CanonicalUnit maps a raw unit token to the canonical vocabulary.
// Unrecognized and empty tokens fall back to the base "each" unit.
func CanonicalUnit(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return DefaultUnit
	}
	if u, ok := unitSynonyms[t]; ok {
		return u
	}
	return DefaultUnit
}
