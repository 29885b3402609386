// Package conversation is the single entry point the chat orchestration
// layer calls: it runs the search engines, consolidates the candidates,
// and decides how the turn should be presented.
package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/usecase/exact"
	"github.com/chatterdesk/searchcore/internal/usecase/refine"
)

// Context carries the per-turn conversational state the orchestration
// layer tracks. NarrowedProductIDs holds the candidate set from the
// previous turn's refinement prompt; when present, the engines are
// skipped and evaluation restarts over that narrowed set.
type Context struct {
	DomainID           string
	SessionID          string
	DetectedIntent     string
	NarrowedProductIDs []string
	Limit              int
}

// Outcome is the result of one turn. When Decision.ShouldRefine is true
// the orchestration layer surfaces Decision.Response verbatim instead of
// rendering Results.
type Outcome struct {
	Results  []domain.ConsolidatedResult
	Decision domref.Decision
}

// Service orchestrates one conversational search turn.
type Service struct {
	hybrid       HybridSearcher
	exact        ExactSearcher
	catalog      Catalog
	consolidator Consolidator
	refiner      Refiner
	embed        Embedder
	productFloor float64 // similarity floor for query → product matching
}

// New creates the conversational search orchestrator.
func New(
	hybrid HybridSearcher, exact ExactSearcher, catalog Catalog,
	consolidator Consolidator, refiner Refiner, embed Embedder,
	productFloor float64,
) *Service {
	return &Service{
		hybrid:       hybrid,
		exact:        exact,
		catalog:      catalog,
		consolidator: consolidator,
		refiner:      refiner,
		embed:        embed,
		productFloor: productFloor,
	}
}

// Search runs one turn. Errors from individual engines never propagate:
// every degradation path still produces an Outcome with an honest
// user-facing response.
func (s *Service) Search(ctx context.Context, query string, conv Context) (Outcome, error) {
	if conv.DomainID == "" {
		return Outcome{}, domain.ErrMissingTenant
	}
	if conv.Limit <= 0 {
		conv.Limit = request.DefaultLimit
	}

	// Progressive narrowing: re-evaluate the previous turn's candidate
	// set instead of searching again.
	if len(conv.NarrowedProductIDs) > 0 {
		return s.narrowedTurn(ctx, query, conv)
	}

	products, pages := s.gatherCandidates(ctx, query, conv)

	consolidated := s.consolidator.Consolidate(products, pages)
	decision := s.refiner.Decide(ctx, query, toRefineCandidates(consolidated))

	return Outcome{Results: consolidated, Decision: decision}, nil
}

// gatherCandidates runs the exact-match short circuit, then the product
// KNN and hybrid content search. Each source degrades independently.
func (s *Service) gatherCandidates(
	ctx context.Context, query string, conv Context,
) ([]domain.CommerceProduct, []domain.ScrapedPage) {
	log := logger.FromContext(ctx)

	// Exact match first: the fastest and most precise path. Catalog hits
	// resolve to products by ID; content hits already carry their page
	// context window and go straight to consolidation.
	if hits := s.exact.Search(ctx, query, conv.DomainID, conv.Limit); len(hits) > 0 {
		var ids []string
		var pages []domain.ScrapedPage
		for i := range hits {
			h := &hits[i]
			if h.Method() == exact.MethodContent {
				pages = append(pages, domain.ScrapedPage{
					URL:        h.URL(),
					Title:      h.Title(),
					Content:    h.Snippet(),
					Similarity: 1.0,
				})
				continue
			}
			ids = append(ids, h.ID())
		}

		var products []domain.CommerceProduct
		if len(ids) > 0 {
			var err error
			products, err = s.catalog.ByIDs(ctx, conv.DomainID, ids)
			if err != nil {
				log.Warn("exact hit product fetch failed", zap.String("domain_id", conv.DomainID), zap.Error(err))
				products = nil
			}
			for i := range products {
				products[i].Similarity = 1.0 // exact matches are maximally confident
				products[i].HasSimilarity = true
			}
		}
		if len(products) > 0 || len(pages) > 0 {
			return products, pages
		}
	}

	var products []domain.CommerceProduct
	if emb, err := s.embed.Embed(ctx, query); err != nil {
		log.Warn("query embedding failed, product matching skipped",
			zap.String("domain_id", conv.DomainID), zap.Error(err))
	} else {
		products, err = s.catalog.KNNProducts(ctx, conv.DomainID, emb.Embedding, conv.Limit, s.productFloor)
		if err != nil {
			log.Warn("product knn failed", zap.String("domain_id", conv.DomainID), zap.Error(err))
			products = nil
		}
	}

	pages := s.contentPages(ctx, query, conv)
	return products, pages
}

// contentPages runs hybrid content search and reshapes hits into scraped
// pages for the consolidator.
func (s *Service) contentPages(ctx context.Context, query string, conv Context) []domain.ScrapedPage {
	log := logger.FromContext(ctx)

	req, err := request.New(query, request.Filters{DomainID: conv.DomainID}, conv.Limit, 0, 0)
	if err != nil {
		log.Warn("content search request rejected", zap.Error(err))
		return nil
	}

	resp, err := s.hybrid.Search(ctx, &req)
	if err != nil {
		log.Warn("hybrid content search failed", zap.String("domain_id", conv.DomainID), zap.Error(err))
		return nil
	}

	pages := make([]domain.ScrapedPage, 0, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		pages = append(pages, domain.ScrapedPage{
			URL:        r.URL(),
			Title:      r.Title(),
			Content:    r.Snippet(),
			Similarity: r.Score(),
		})
	}
	return pages
}

// narrowedTurn re-evaluates a previously narrowed candidate set. A fetch
// failure degrades to an honest direct response, like every other engine
// failure in this package.
func (s *Service) narrowedTurn(ctx context.Context, query string, conv Context) (Outcome, error) {
	products, err := s.catalog.ByIDs(ctx, conv.DomainID, conv.NarrowedProductIDs)
	if err != nil {
		logger.FromContext(ctx).Warn("narrowed candidate fetch failed",
			zap.String("domain_id", conv.DomainID), zap.Error(err))
		return Outcome{Decision: domref.Direct(
			"I couldn't look those products up just now. Please try again in a moment.",
		)}, nil
	}

	consolidated := s.consolidator.Consolidate(products, nil)
	decision := s.refiner.Decide(ctx, query, toRefineCandidates(consolidated))

	return Outcome{Results: consolidated, Decision: decision}, nil
}

func toRefineCandidates(consolidated []domain.ConsolidatedResult) []refine.Candidate {
	candidates := make([]refine.Candidate, 0, len(consolidated))
	for _, c := range consolidated {
		candidates = append(candidates, refine.Candidate{
			Product:    c.Product,
			Similarity: c.FinalSimilarity,
		})
	}
	return candidates
}
