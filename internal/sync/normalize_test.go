package sync

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"<p>hello</p>", "<p>hello</p>"},
		{"  <p>\n  hello   world\n</p>\n", "<p> hello world </p>"},
		{"a\t\tb\n\nc", "a b c"},
	}

	for _, tc := range testCases {
		if got := Normalize(tc.input); got != tc.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "  <div>\n   some\tcontent </div> "
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeWhitespaceEquivalence(t *testing.T) {
	a := "<p>hello   world</p>"
	b := "<p>hello\n\tworld</p>"
	if Normalize(a) != Normalize(b) {
		t.Errorf("strings differing only in whitespace should normalize equal: %q vs %q", Normalize(a), Normalize(b))
	}
}
