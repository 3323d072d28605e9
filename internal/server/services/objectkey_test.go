package services

import (
	"strings"
	"testing"
)

func TestObjectKey_Sharding(t *testing.T) {
	hash := strings.Repeat("a", 40)
	got := ObjectKey("", "sha1", hash)
	want := "sha1/aa/aa/aa/" + hash
	if got != want {
		t.Fatalf("ObjectKey = %q, want %q", got, want)
	}
}

func TestObjectKey_WithDirectory(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef01234567"
	got := ObjectKey("proj", "sha1", hash)
	want := "proj/sha1/01/23/45/" + hash
	if got != want {
		t.Fatalf("ObjectKey = %q, want %q", got, want)
	}
}

func TestObjectKey_TrailingSlashDirectory(t *testing.T) {
	hash := strings.Repeat("b", 40)
	got := ObjectKey("proj/", "sha1", hash)
	if strings.Contains(got, "//") {
		t.Fatalf("duplicate separator in key: %q", got)
	}
	if !strings.HasPrefix(got, "proj/sha1/bb/") {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestObjectKey_Deterministic(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef01234567"
	a := ObjectKey("d", "sha1", hash)
	b := ObjectKey("d", "sha1", hash)
	if a != b {
		t.Fatalf("ObjectKey not deterministic: %q vs %q", a, b)
	}
}

func TestObjectKey_DiffersByHash(t *testing.T) {
	a := ObjectKey("", "sha1", strings.Repeat("a", 40))
	b := ObjectKey("", "sha1", strings.Repeat("b", 40))
	if a == b {
		t.Fatalf("distinct hashes produced identical keys: %q", a)
	}
	// differing only past the shard prefix still yields distinct keys
	c := ObjectKey("", "sha1", "aaaaaa"+strings.Repeat("c", 34))
	d := ObjectKey("", "sha1", "aaaaaa"+strings.Repeat("d", 34))
	if c == d {
		t.Fatalf("distinct hashes produced identical keys: %q", c)
	}
}

func TestIsValidSha1(t *testing.T) {
	tests := []struct {
		hash string
		want bool
	}{
		{strings.Repeat("a", 40), true},
		{"0123456789abcdef0123456789abcdef01234567", true},
		{"abc", false},
		{strings.Repeat("A", 40), false},
		{strings.Repeat("a", 39), false},
		{strings.Repeat("a", 41), false},
		{strings.Repeat("g", 40), false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidSha1(tc.hash); got != tc.want {
			t.Fatalf("IsValidSha1(%q) = %v, want %v", tc.hash, got, tc.want)
		}
	}
}

func TestMaxSizeForZone(t *testing.T) {
	if got := MaxSizeForZone("default"); got != 200_000_000 {
		t.Fatalf("default zone quota = %d", got)
	}
	if got := MaxSizeForZone("lab"); got != 1_000_000_000 {
		t.Fatalf("dedicated zone quota = %d", got)
	}
}
