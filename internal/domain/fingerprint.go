package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintSeparator joins the normalized title and description before
// hashing. It is part of the stored key format and must never change.
const FingerprintSeparator = ":"

// FingerprintLen is the length of a hex-encoded SHA-256 digest.
const FingerprintLen = sha256.Size * 2

// Fingerprint returns the cache key for a survey brief: the lower-case hex
// SHA-256 of lower(trim(title)) + ":" + lower(trim(description)).
//
// Two briefs that differ only in letter case or surrounding whitespace share a
// fingerprint. Callers must not compare briefs any other way.
func Fingerprint(title, description string) string {
	normalized := normalizeBrief(title) + FingerprintSeparator + normalizeBrief(description)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func normalizeBrief(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
