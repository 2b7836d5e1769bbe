// Package query canonicalizes free-text search input so that every
// source adapter and every dedup key sees the same string for inputs
// that differ only in whitespace or letter case.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize trims the input, collapses internal whitespace runs to
// single spaces, and lower-cases the result. It is pure and idempotent;
// whitespace-only input normalizes to the empty string, which downstream
// treats as a valid (if fruitless) query rather than an error.
func Normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Key derives a stable hex digest of the normalized query. Used to
// deduplicate queries inside a batch job.
func Key(raw string) string {
	sum := sha256.Sum256([]byte(Normalize(raw)))
	return hex.EncodeToString(sum[:])
}
