package redis

import "testing"

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "garden hose", "garden hose"},
		{"sku with dash", "ABC-1234", `ABC\-1234`},
		{"query operators", "a|b(c)", `a\|b\(c\)`},
		{"field selector", "@name:foo", `\@name:foo`},
		{"backslash first", `a\b`, `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeQuery(tt.input); got != tt.want {
				t.Errorf("EscapeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "acme", "acme"},
		{"domain with dot", "shop.example.com", `shop\.example\.com`},
		{"comma separated", "a,b", `a\,b`},
		{"colon", "ns:val", `ns\:val`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeTag(tt.input); got != tt.want {
				t.Errorf("EscapeTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
