package deck

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates the card's content after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each field
// before joining them.
func Normalize(card Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	// Joined with a newline so "word" and "translation" cannot run together.
	return strings.Join([]string{
		normalizePart(card.Word),
		normalizePart(card.Translation),
		normalizePart(card.Notes),
	}, "\n")
}

// ID is the SHA-256 of the normalized card as a hex string. Importing the same
// deck on two devices yields the same ids, so the items merge instead of
// duplicating.
func ID(card Card) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(Normalize(card))))
}
