package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestFingerprint_MatchesDigestOfNormalizedBrief(t *testing.T) {
	sum := sha256.Sum256([]byte("customer satisfaction:quarterly survey"))
	want := hex.EncodeToString(sum[:])

	if got := Fingerprint("Customer Satisfaction", "Quarterly survey"); got != want {
		t.Fatalf("Fingerprint = %s; want %s", got, want)
	}
}

func TestFingerprint_CaseAndWhitespaceInsensitive(t *testing.T) {
	base := Fingerprint("Customer Satisfaction", "Quarterly survey")
	cases := []struct{ title, desc string }{
		{"customer satisfaction", "quarterly survey"},
		{"  CUSTOMER SATISFACTION  ", "\tQuarterly Survey\n"},
		{"Customer Satisfaction", "  quarterly SURVEY"},
	}
	for _, c := range cases {
		if got := Fingerprint(c.title, c.desc); got != base {
			t.Fatalf("Fingerprint(%q,%q) = %s; want %s", c.title, c.desc, got, base)
		}
	}
}

func TestFingerprint_DistinguishesBriefs(t *testing.T) {
	a := Fingerprint("Customer Satisfaction", "Quarterly survey")
	if b := Fingerprint("Customer Satisfaction", "Annual survey"); a == b {
		t.Fatalf("different descriptions must not collide")
	}
	// inner whitespace is significant
	if b := Fingerprint("Customer  Satisfaction", "Quarterly survey"); a == b {
		t.Fatalf("inner whitespace must not be collapsed")
	}
}

func TestFingerprint_EmptyDescription(t *testing.T) {
	sum := sha256.Sum256([]byte("t:"))
	if got := Fingerprint("T", ""); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("empty description digest mismatch: %s", got)
	}
}

func TestFingerprint_Shape(t *testing.T) {
	fp := Fingerprint("a", "b")
	if len(fp) != FingerprintLen {
		t.Fatalf("len = %d; want %d", len(fp), FingerprintLen)
	}
	for i := 0; i < len(fp); i++ {
		if c := fp[i]; (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("fingerprint %q is not lower-case hex", fp)
		}
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Fingerprint("x", "y") != Fingerprint("x", "y") {
			t.Fatalf("fingerprint not deterministic")
		}
	}
}
