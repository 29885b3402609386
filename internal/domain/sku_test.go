package domain

import (
	"reflect"
	"testing"
)

func TestIsSKUPattern(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"ABC123", true},
		{"AB123", false},        // too short
		{"ABCDEFG", false},      // no digit
		{"1234567", false},      // no letter
		{"PMP-4501", true},
		{"part_99A", true},
		{"ABC 123", false},      // space not allowed
		{"ABC123!", false},      // punctuation not allowed
		{"  ABC123  ", true},    // trimmed before checking
		{"", false},
		{"a1-b2-c3", true},
	}

	for _, tt := range tests {
		if got := IsSKUPattern(tt.token); got != tt.want {
			t.Errorf("IsSKUPattern(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestSKUTokens(t *testing.T) {
	got := SKUTokens("do you have PMP-4501 or maybe ABC123 in stock")
	want := []string{"PMP-4501", "ABC123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SKUTokens = %v, want %v", got, want)
	}

	if got := SKUTokens("hydraulic pump"); got != nil {
		t.Errorf("expected no tokens for plain text, got %v", got)
	}
}
