// Package engine names the search engines a result can originate from.
package engine

// Engine identifies which search path produced a result.
type Engine string

// Source engine constants.
const (
	// FTS is token/ranking-based full-text search.
	FTS Engine = "fts"
	// Vector is embedding nearest-neighbor search.
	Vector Engine = "vector"
	// Exact is direct SKU/identifier lookup, the fastest and most precise path.
	Exact Engine = "exact"
)

// IsValid checks if the engine is one of the supported values.
func (e Engine) IsValid() bool {
	return e == FTS || e == Vector || e == Exact
}
