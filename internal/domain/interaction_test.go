package domain

import (
	"math"
	"testing"
)

func set(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"half overlap", set("1", "2", "3"), set("1", "2", "4"), 0.5},
		{"small overlap", set("1", "2", "3", "4", "5"), set("1"), 0.2},
		{"identical", set("1", "2"), set("1", "2"), 1.0},
		{"disjoint", set("1"), set("2"), 0},
		{"both empty", set(), set(), 0},
		{"one empty", set("1"), set(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JaccardSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JaccardSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name string
		ev   InteractionEvent
		want float64
	}{
		{"click only", InteractionEvent{Clicked: true}, 2.0},
		{"purchase only", InteractionEvent{Purchased: true}, 3.0},
		{"click and purchase", InteractionEvent{Clicked: true, Purchased: true}, 5.0},
		{"view only", InteractionEvent{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.EngagementScore(); got != tt.want {
				t.Errorf("EngagementScore = %v, want %v", got, tt.want)
			}
		})
	}
}
