// Package refine decides, once per conversational turn, whether to show
// search results directly or ask the user a narrowing question first.
package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Candidate is one scored product under consideration for presentation.
// RankingScore is the optional multi-signal score (semantic similarity,
// stock, price match, popularity, recency); when present, the decision
// layer surfaces only high-scoring items as top matches.
type Candidate struct {
	Product         domain.CommerceProduct
	Similarity      float64
	RankingScore    float64
	HasRankingScore bool
	RankingSignals  []string
}

// Config holds refinement tuning.
type Config struct {
	MinResults        int     // below this, present directly, default 5
	HomogeneitySpread float64 // similarity spread under which results count as homogeneous, default 0.10
	PriceBandLow      float64 // budget/mid boundary, default 50
	PriceBandHigh     float64 // mid/premium boundary, default 150
	RankingCutoff     float64 // floor for "top match" in ranking-aware mode, default 0.80
}

// Service evaluates one turn. The state machine is AwaitingQuery →
// Evaluating → {DirectResult | RefinementPrompt}; it is terminal per
// turn, and the next user message restarts evaluation over the
// narrowed candidate set.
type Service struct {
	cfg Config
}

// New creates a refinement service.
func New(cfg Config) *Service {
	if cfg.MinResults <= 0 {
		cfg.MinResults = 5
	}
	if cfg.HomogeneitySpread <= 0 {
		cfg.HomogeneitySpread = 0.10
	}
	if cfg.PriceBandLow <= 0 {
		cfg.PriceBandLow = 50
	}
	if cfg.PriceBandHigh <= 0 {
		cfg.PriceBandHigh = 150
	}
	if cfg.RankingCutoff <= 0 {
		cfg.RankingCutoff = 0.80
	}
	return &Service{cfg: cfg}
}

// Decide evaluates the query and candidate set and produces the turn's
// decision. Refinement is suppressed for specific queries, small or
// homogeneous result sets, and explicit show-everything requests; in
// those cases the results are presented directly.
func (s *Service) Decide(_ context.Context, query string, candidates []Candidate) domref.Decision {
	if len(candidates) == 0 {
		d := domref.Direct("I couldn't find any products matching that. Could you describe what you're looking for in a different way?")
		metrics.RefinementDecisionsTotal.WithLabelValues("direct", "none").Inc()
		return d
	}

	if s.suppressRefinement(query, candidates) {
		d := domref.Direct(s.directResponse(candidates))
		metrics.RefinementDecisionsTotal.WithLabelValues("direct", "none").Inc()
		return d
	}

	d := s.refinementPrompt(candidates)
	metrics.RefinementDecisionsTotal.WithLabelValues("refine", string(d.Strategy)).Inc()
	return d
}

// suppressRefinement reports whether the turn should present results
// directly instead of asking a narrowing question.
func (s *Service) suppressRefinement(query string, candidates []Candidate) bool {
	if isSpecificQuery(query) {
		return true
	}
	if len(candidates) < s.cfg.MinResults {
		return true
	}
	if s.areResultsSimilar(candidates) {
		return true
	}
	if wantsEverything(query) {
		return true
	}
	return false
}

// isSpecificQuery reports whether the user already knows exactly what
// they want: a SKU-like token or explicit specificity language.
func isSpecificQuery(query string) bool {
	if len(domain.SKUTokens(query)) > 0 {
		return true
	}
	lower := strings.ToLower(query)
	return strings.Contains(lower, "specific") || strings.Contains(lower, "exact")
}

// wantsEverything reports whether the user explicitly asked for the full list.
func wantsEverything(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "everything") || strings.Contains(lower, "all products")
}

// areResultsSimilar reports result homogeneity: every candidate in one
// category and the similarity spread below the configured threshold.
func (s *Service) areResultsSimilar(candidates []Candidate) bool {
	category := ""
	minSim := candidates[0].Similarity
	maxSim := candidates[0].Similarity

	for _, c := range candidates {
		cat := primaryCategory(c.Product)
		if category == "" {
			category = cat
		} else if cat != category {
			return false
		}
		if c.Similarity < minSim {
			minSim = c.Similarity
		}
		if c.Similarity > maxSim {
			maxSim = c.Similarity
		}
	}

	return category != "" && maxSim-minSim < s.cfg.HomogeneitySpread
}

// directResponse presents candidates without a narrowing question. In
// ranking-aware mode only high-scoring items are named as top matches,
// along with the signals that put them there.
func (s *Service) directResponse(candidates []Candidate) string {
	if ranked := s.topRanked(candidates); ranked != nil {
		return ranked.response
	}
	if len(candidates) == 1 {
		return fmt.Sprintf("I found one product that matches: %s.", candidates[0].Product.Name)
	}
	return fmt.Sprintf("I found %d products that match what you're looking for. Here they are.", len(candidates))
}

type rankedResponse struct {
	response string
}

// topRanked builds the ranking-aware presentation when candidates carry
// multi-signal scores. Only items above the cutoff are offered as top
// matches, and the response names the signals used, so the user can see
// why these items ranked highest. Returns nil when no candidate carries
// a ranking score.
func (s *Service) topRanked(candidates []Candidate) *rankedResponse {
	var top []Candidate
	signals := map[string]struct{}{}
	anyRanked := false
	for _, c := range candidates {
		if !c.HasRankingScore {
			continue
		}
		anyRanked = true
		if c.RankingScore > s.cfg.RankingCutoff {
			top = append(top, c)
			for _, sig := range c.RankingSignals {
				signals[sig] = struct{}{}
			}
		}
	}
	if !anyRanked {
		return nil
	}

	if len(top) == 0 {
		return &rankedResponse{response: fmt.Sprintf(
			"I found %d possible matches, though none stood out strongly. Would you like to see them anyway?",
			len(candidates),
		)}
	}

	names := make([]string, 0, len(top))
	for _, c := range top {
		names = append(names, c.Product.Name)
	}
	sigList := sortedKeys(signals)
	return &rankedResponse{response: fmt.Sprintf(
		"Based on %s, your top matches are: %s. Would you like more detail on any of these?",
		humanJoin(sigList), humanJoin(names),
	)}
}
