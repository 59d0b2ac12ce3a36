package entities

import "testing"

func TestCategory_KeyRoundTrip(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(c.Key())
		if !ok || got != c {
			t.Errorf("Expected %q to parse back to %v, got %v (ok=%v)", c.Key(), c, got, ok)
		}
	}
	if _, ok := ParseCategory("unknown"); ok {
		t.Errorf("Expected unknown category key to be rejected")
	}
}

func TestParseVariant(t *testing.T) {
	testCases := []struct {
		key      string
		expected Variant
		ok       bool
	}{
		{"before", VariantBefore, true},
		{"after", VariantAfter, true},
		{"forecasted", VariantForecasted, true},
		{"forecast", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := ParseVariant(tc.key)
			if ok != tc.ok || got != tc.expected {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tc.expected, tc.ok, got, ok)
			}
		})
	}
}
