package catalog_test

import (
	"testing"

	"github.com/wooyangcrm/catalog-migrate/catalog"
)

func TestNormalizeName_GroupsVariants(t *testing.T) {
	a := catalog.NormalizeName("  Widget-A (v2)  ")
	b := catalog.NormalizeName("widget a(v2)")
	if a != b {
		t.Fatalf("expected same grouping key, got %q and %q", a, b)
	}
	if a != "widget a(v2)" {
		t.Fatalf("expected key %q, got %q", "widget a(v2)", a)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"PE필름 - 투명", "pe필름 투명"},
		{"PE필름-투명", "pe필름 투명"},
		{"A / B", "a/b"},
		{"A/B", "a/b"},
		{"Name ( Spec )", "name(spec)"},
		{"Tab\there", "tab here"},
		{"  double  space  ", "double space"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := catalog.NormalizeName(tc.in); got != tc.expected {
			t.Errorf("NormalizeName(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestCleanName_PreservesCase(t *testing.T) {
	if got := catalog.CleanName("Widget\tA"); got != "Widget A" {
		t.Fatalf("CleanName expected %q, got %q", "Widget A", got)
	}
	if got := catalog.CleanName("  PE필름 \n 투명  "); got != "PE필름 투명" {
		t.Fatalf("CleanName expected %q, got %q", "PE필름 투명", got)
	}
}

func TestCleanNameAndNormalizeNameAreIndependent(t *testing.T) {
	// Different cleaned forms can still share one grouping key.
	x, y := "Widget-A", "widget a"
	if catalog.CleanName(x) == catalog.CleanName(y) {
		t.Fatal("cleaned forms should differ")
	}
	if catalog.NormalizeName(x) != catalog.NormalizeName(y) {
		t.Fatal("grouping keys should match")
	}
}

func TestEligible(t *testing.T) {
	cases := []struct {
		in       string
		expected bool
	}{
		{"Widget", true},
		{"투명 필름", true},
		{"", false},
		{"  ", false},
		{"A", false},
		{"롤", false},
		{"* 납기 별도 협의", false},
		{": 부가세 별도", false},
	}
	for _, tc := range cases {
		if got := catalog.Eligible(tc.in); got != tc.expected {
			t.Errorf("Eligible(%q) expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestCanonicalUnit(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"EA", "EA"},
		{"ea", "EA"},
		{"pcs", "EA"},
		{"개", "EA"},
		{"m", "M"},
		{"미터", "M"},
		{"roll", "롤"},
		{"롤", "롤"},
		{"KG", "KG"},
		{"세트", "SET"},
		{"매", "장"},
		{"박스", "BOX"},
		{"", "EA"},
		{"unknownunit", "EA"},
	}
	for _, tc := range cases {
		if got := catalog.CanonicalUnit(tc.in); got != tc.expected {
			t.Errorf("CanonicalUnit(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}
