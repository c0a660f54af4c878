package stringutils

import "testing"

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("expected %q, got %q", "hello...", got)
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"abc":           "****",
		"ya29.a0Secret": "****cret",
	}
	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
