// Package result defines the per-request search hit shape shared by all engines.
package result

import "github.com/chatterdesk/searchcore/internal/domain/search/engine"

// Result is a single search hit. Produced per query, never persisted;
// its lifetime is one request.
type Result struct {
	id      string
	url     string
	title   string
	snippet string
	score   float64
	source  engine.Engine
	method  string
}

// New creates a search result. score is relevance or similarity in [0,1].
func New(id string, score float64, snippet string, source engine.Engine) Result {
	return Result{id: id, score: score, snippet: snippet, source: source}
}

// WithURL attaches the source URL.
func (r Result) WithURL(url string) Result {
	r.url = url
	return r
}

// WithTitle attaches the display title.
func (r Result) WithTitle(title string) Result {
	r.title = title
	return r
}

// WithMethod tags the result with the specific lookup method used
// (e.g. "exact-match-catalog"), for observability.
func (r Result) WithMethod(method string) Result {
	r.method = method
	return r
}

// WithScore returns a copy carrying a new score. Used by the hybrid
// merger when blending FTS and semantic scores.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// ID returns the item identifier.
func (r *Result) ID() string { return r.id }

// URL returns the source URL, if any.
func (r *Result) URL() string { return r.url }

// Title returns the display title, if any.
func (r *Result) Title() string { return r.title }

// Snippet returns the content snippet (highlighted for FTS hits).
func (r *Result) Snippet() string { return r.snippet }

// Score returns the relevance or similarity score in [0,1].
func (r *Result) Score() float64 { return r.score }

// Source returns the engine that produced this result.
func (r *Result) Source() engine.Engine { return r.source }

// Method returns the lookup method tag, if any.
func (r *Result) Method() string { return r.method }
