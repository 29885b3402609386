package exact

import (
	"strings"
	"unicode/utf8"
)

// contextWindow extracts up to radius characters either side of the first
// occurrence of token in content, ellipsis-truncated at cut boundaries.
// Returns content unchanged when the token is absent.
func contextWindow(content, token string, radius int) string {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(token))
	if idx < 0 {
		return content
	}

	start := snapToRuneStart(content, idx-radius)
	end := snapToRuneStart(content, idx+len(token)+radius)

	var b strings.Builder
	if start <= 0 {
		start = 0
	} else {
		b.WriteString("…")
	}
	truncated := end < len(content)
	if end > len(content) {
		end = len(content)
	}
	b.WriteString(content[start:end])
	if truncated {
		b.WriteString("…")
	}
	return b.String()
}

// snapToRuneStart moves i back to the nearest rune boundary so the cut
// never splits a multi-byte character.
func snapToRuneStart(s string, i int) int {
	if i <= 0 || i >= len(s) {
		return i
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
