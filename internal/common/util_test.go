package common

import (
	"testing"
)

func TestMakeRandAlphanumString_LengthAndAlphabet(t *testing.T) {
	const n = 32
	s, err := MakeRandAlphanumString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n {
		t.Fatalf("expected length %d, got %d", n, len(s))
	}
	for _, c := range s {
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			t.Fatalf("unexpected character %q in api key", c)
		}
	}
}

func TestMakeRandAlphanumString_EntropyHint(t *testing.T) {
	a, err := MakeRandAlphanumString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandAlphanumString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Logf("warning: two MakeRandAlphanumString(32) results are identical; extremely unlikely")
	}
}
