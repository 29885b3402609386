package hybrid

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/usecase/fts"
)

// TextSearcher is the full-text leg of hybrid search.
type TextSearcher interface {
	Search(ctx context.Context, req *request.Request) (fts.Response, error)
}

// SemanticRepository is the vector leg of hybrid search.
type SemanticRepository interface {
	KNN(ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64) ([]result.Result, error)
}

// Embedder vectorizes the query for the semantic leg.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
