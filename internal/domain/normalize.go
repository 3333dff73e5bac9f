package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Normalize canonicalizes text before hashing and embedding: leading/trailing
// whitespace is trimmed and the result lowercased. No locale-specific folding.
// Empty-after-trim input is ErrInvalidInput.
func Normalize(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	return strings.ToLower(s), nil
}

// ContentAddress derives the cache key for normalized text: xxhash64 over the
// UTF-8 bytes, rendered as 16 hex characters. Deterministic across runs;
// collision resistance is sized for tens of thousands of entries, not for
// tamper resistance.
func ContentAddress(normalized string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalized))
}
