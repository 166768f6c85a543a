package search

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"Asmara", "asmara"},
		{"  Asmara  ", "asmara"},
		{"ADDIS   ABABA", "addis ababa"},
		{"\tkeren\n", "keren"},
		{"one  two\t three", "one two three"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

// normalizing twice must equal normalizing once, since the same routine runs
// on both index build and query sides.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Asmara", "  ADDIS   ABABA  ", "a\tb\nc", "már séf"}
	for _, s := range inputs {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}

func TestStripAlphabet(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"asmara", "asmara"},
		{"a-b'c", "abc"},
		{"route 66", "route 66"},
		{"!!!", ""},
		{"café", "caf"},
	}

	for _, tc := range testCases {
		if got := stripAlphabet(tc.input); got != tc.expected {
			t.Errorf("stripAlphabet(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
