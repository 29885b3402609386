package domain

import (
	"strings"
	"unicode"
)

// minSKULength is the shortest token treated as a product identifier.
// Shorter alphanumeric tokens are too ambiguous (e.g. "AB123").
const minSKULength = 6

// IsSKUPattern reports whether a token looks like a product identifier:
// after trimming whitespace, at least 6 characters, containing at least
// one letter and one digit, built only from letters, digits, hyphens and
// underscores.
func IsSKUPattern(token string) bool {
	token = strings.TrimSpace(token)
	if len(token) < minSKULength {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range token {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '-' || r == '_':
			// allowed separators
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// SKUTokens returns the tokens of a query that match the SKU pattern.
func SKUTokens(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(query) {
		if IsSKUPattern(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
