// Package exact implements direct SKU lookup, the fastest and most
// precise search path. All hits carry similarity 1.0.
package exact

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/search/engine"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Lookup method tags, attached to results for observability.
const (
	MethodCatalog = "exact-match-catalog"
	MethodContent = "exact-match-content"
)

// attempt is one lookup strategy. Returns nil results when it found
// nothing; the next strategy in order is then tried. The ordered list
// keeps the catalog-before-content priority auditable.
type attempt func(ctx context.Context, domainID, token string, limit int) ([]result.Result, error)

// Service resolves SKU-like tokens against the catalog first, then
// falls back to literal content search.
type Service struct {
	catalog       Catalog
	pages         Pages
	contextRadius int
	attempts      []attempt
}

// New creates an exact-match service. contextRadius is the number of
// characters of surrounding context kept either side of a content hit.
func New(catalog Catalog, pages Pages, contextRadius int) *Service {
	s := &Service{catalog: catalog, pages: pages, contextRadius: contextRadius}
	s.attempts = []attempt{s.catalogAttempt, s.contentAttempt}
	return s
}

// Search tries each SKU-like token of the query against the attempt
// chain, first success wins. Non-SKU queries and all failure paths
// yield an empty result set, never an error: exact match is an
// optimization, not a required path.
func (s *Service) Search(ctx context.Context, query, domainID string, maxResults int) []result.Result {
	tokens := domain.SKUTokens(query)
	if len(tokens) == 0 || maxResults <= 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	for _, token := range tokens {
		for _, try := range s.attempts {
			results, err := try(ctx, domainID, token, maxResults)
			if err != nil {
				log.Warn("exact match attempt failed",
					zap.String("domain_id", domainID),
					zap.String("token", token),
					zap.Error(err),
				)
				metrics.EngineRequestsTotal.WithLabelValues("exact", "degraded").Inc()
				continue
			}
			if len(results) > 0 {
				metrics.EngineRequestsTotal.WithLabelValues("exact", "ok").Inc()
				metrics.EngineResultCount.WithLabelValues("exact").Observe(float64(len(results)))
				return results
			}
		}
	}
	return nil
}

// catalogAttempt matches the token against the commerce catalog's
// identifier field.
func (s *Service) catalogAttempt(ctx context.Context, domainID, token string, limit int) ([]result.Result, error) {
	products, err := s.catalog.BySKU(ctx, domainID, token, limit)
	if err != nil {
		return nil, err
	}

	results := make([]result.Result, 0, len(products))
	for _, p := range products {
		snippet := p.ShortDescription
		if snippet == "" {
			snippet = p.Description
		}
		res := result.New(p.ID, 1.0, snippet, engine.Exact).
			WithTitle(p.Name).
			WithURL(p.Permalink).
			WithMethod(MethodCatalog)
		results = append(results, res)
	}
	return results, nil
}

// contentAttempt falls back to crawled pages containing the literal
// token, keeping a context window around the first occurrence.
func (s *Service) contentAttempt(ctx context.Context, domainID, token string, limit int) ([]result.Result, error) {
	pages, err := s.pages.Containing(ctx, domainID, token, limit)
	if err != nil {
		return nil, err
	}

	results := make([]result.Result, 0, len(pages))
	for _, p := range pages {
		snippet := contextWindow(p.Content, token, s.contextRadius)
		res := result.New(p.URL, 1.0, snippet, engine.Exact).
			WithTitle(p.Title).
			WithURL(p.URL).
			WithMethod(MethodContent)
		results = append(results, res)
	}
	return results, nil
}
