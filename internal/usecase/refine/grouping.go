package refine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
)

// Match-quality band boundaries.
const (
	matchExcellent = 0.90
	matchGood      = 0.75
	matchModerate  = 0.60
)

// refinementPrompt picks a grouping strategy in priority order —
// category, price band, stock status, match quality — and formats the
// narrowing question. Category comes first because it is the axis users
// most naturally narrow by; match quality is the always-available fallback.
func (s *Service) refinementPrompt(candidates []Candidate) domref.Decision {
	if counts := categoryCounts(candidates); len(counts) >= 2 {
		return domref.Prompt(domref.ByCategory, formatCategoryPrompt(len(candidates), counts))
	}
	if bands, distinct := s.priceBands(candidates); distinct >= 2 {
		return domref.Prompt(domref.ByPrice, s.formatPricePrompt(len(candidates), bands))
	}
	if bands, distinct := stockBands(candidates); distinct >= 2 {
		return domref.Prompt(domref.ByStock, formatStockPrompt(len(candidates), bands))
	}
	return domref.Prompt(domref.ByMatchQuality, formatMatchQualityPrompt(candidates))
}

// --- category ---

func primaryCategory(p domain.CommerceProduct) string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}

func categoryCounts(candidates []Candidate) map[string]int {
	counts := make(map[string]int)
	for _, c := range candidates {
		if cat := primaryCategory(c.Product); cat != "" {
			counts[cat]++
		}
	}
	return counts
}

func formatCategoryPrompt(total int, counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, cat := range sortedCountKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s (%d)", cat, counts[cat]))
	}
	return fmt.Sprintf(
		"I found %d products across a few different categories: %s. Which type are you interested in?",
		total, humanJoin(parts),
	)
}

// --- price bands ---

type priceBandCounts struct {
	budget  int
	mid     int
	premium int
}

// priceBands buckets candidates by price. Boundary prices fall into the
// middle band: exactly 50 is mid-range, exactly 150 is mid-range.
func (s *Service) priceBands(candidates []Candidate) (priceBandCounts, int) {
	var bands priceBandCounts
	for _, c := range candidates {
		if !c.Product.HasPrice {
			continue
		}
		switch {
		case c.Product.Price < s.cfg.PriceBandLow:
			bands.budget++
		case c.Product.Price <= s.cfg.PriceBandHigh:
			bands.mid++
		default:
			bands.premium++
		}
	}

	distinct := 0
	for _, n := range []int{bands.budget, bands.mid, bands.premium} {
		if n > 0 {
			distinct++
		}
	}
	return bands, distinct
}

func (s *Service) formatPricePrompt(total int, bands priceBandCounts) string {
	var parts []string
	if bands.budget > 0 {
		parts = append(parts, fmt.Sprintf("%d under £%.0f", bands.budget, s.cfg.PriceBandLow))
	}
	if bands.mid > 0 {
		parts = append(parts, fmt.Sprintf("%d between £%.0f and £%.0f", bands.mid, s.cfg.PriceBandLow, s.cfg.PriceBandHigh))
	}
	if bands.premium > 0 {
		parts = append(parts, fmt.Sprintf("%d over £%.0f", bands.premium, s.cfg.PriceBandHigh))
	}
	return fmt.Sprintf(
		"I found %d products at a range of prices: %s. Would you like to stay within a particular budget?",
		total, humanJoin(parts),
	)
}

// --- stock status ---

type stockBandCounts struct {
	inStock    int
	backorder  int
	outOfStock int
}

func stockBands(candidates []Candidate) (stockBandCounts, int) {
	var bands stockBandCounts
	for _, c := range candidates {
		switch c.Product.StockStatus {
		case domain.InStock:
			bands.inStock++
		case domain.OnBackorder:
			bands.backorder++
		case domain.OutOfStock:
			bands.outOfStock++
		}
	}

	distinct := 0
	for _, n := range []int{bands.inStock, bands.backorder, bands.outOfStock} {
		if n > 0 {
			distinct++
		}
	}
	return bands, distinct
}

func formatStockPrompt(total int, bands stockBandCounts) string {
	var parts []string
	if bands.inStock > 0 {
		parts = append(parts, fmt.Sprintf("%d available now", bands.inStock))
	}
	if bands.backorder > 0 {
		parts = append(parts, fmt.Sprintf("%d on backorder", bands.backorder))
	}
	if bands.outOfStock > 0 {
		parts = append(parts, fmt.Sprintf("%d currently out of stock", bands.outOfStock))
	}
	return fmt.Sprintf(
		"I found %d products: %s. Would you like to see just the ones available right away?",
		total, humanJoin(parts),
	)
}

// --- match quality ---

func formatMatchQualityPrompt(candidates []Candidate) string {
	var excellent, good, moderate int
	for _, c := range candidates {
		switch {
		case c.Similarity >= matchExcellent:
			excellent++
		case c.Similarity >= matchGood:
			good++
		case c.Similarity >= matchModerate:
			moderate++
		}
	}

	var parts []string
	if excellent > 0 {
		parts = append(parts, fmt.Sprintf("%d excellent matches", excellent))
	}
	if good > 0 {
		parts = append(parts, fmt.Sprintf("%d good matches", good))
	}
	if moderate > 0 {
		parts = append(parts, fmt.Sprintf("%d partial matches", moderate))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d loosely related products", len(candidates)))
	}
	return fmt.Sprintf(
		"I found %d products of varying relevance: %s. Would you like to start with the closest matches?",
		len(candidates), humanJoin(parts),
	)
}

// --- formatting helpers ---

// humanJoin joins items into natural prose: "a", "a and b", "a, b and c".
func humanJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Largest group first reads most naturally; ties alphabetical.
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
