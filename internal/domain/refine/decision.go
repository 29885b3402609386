// Package refine defines the per-turn conversational refinement decision.
package refine

// Strategy is the grouping dimension offered to the user when narrowing.
type Strategy string

// Grouping strategy constants, in attempt priority order.
const (
	ByCategory     Strategy = "category"
	ByPrice        Strategy = "price"
	ByStock        Strategy = "stock"
	ByMatchQuality Strategy = "match_quality"
)

// Decision is the outcome of one conversational turn: either present the
// results directly or ask the narrowing question in Response. Computed
// fresh per turn; never persisted.
type Decision struct {
	ShouldRefine bool
	Strategy     Strategy
	Response     string
}

// Direct builds a present-directly decision with the given user-facing text.
func Direct(response string) Decision {
	return Decision{ShouldRefine: false, Response: response}
}

// Prompt builds a narrowing-question decision.
func Prompt(strategy Strategy, response string) Decision {
	return Decision{ShouldRefine: true, Strategy: strategy, Response: response}
}
