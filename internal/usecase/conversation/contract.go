package conversation

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/usecase/hybrid"
	"github.com/chatterdesk/searchcore/internal/usecase/refine"
)

// HybridSearcher is the merged FTS+vector search over the content corpus.
type HybridSearcher interface {
	Search(ctx context.Context, req *request.Request) (hybrid.Response, error)
}

// ExactSearcher is the SKU short-circuit path.
type ExactSearcher interface {
	Search(ctx context.Context, query, domainID string, maxResults int) []result.Result
}

// Catalog provides product lookups for the consolidation step.
type Catalog interface {
	ByIDs(ctx context.Context, domainID string, ids []string) ([]domain.CommerceProduct, error)
	KNNProducts(ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64) ([]domain.CommerceProduct, error)
}

// Consolidator merges products with crawled pages.
type Consolidator interface {
	Consolidate(products []domain.CommerceProduct, pages []domain.ScrapedPage) []domain.ConsolidatedResult
}

// Refiner makes the per-turn presentation decision.
type Refiner interface {
	Decide(ctx context.Context, query string, candidates []refine.Candidate) domref.Decision
}

// Embedder vectorizes the query for product matching.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
