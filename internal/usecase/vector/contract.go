package vector

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// Catalog provides product embeddings and nearest-neighbor lookups.
type Catalog interface {
	Vectors(ctx context.Context, domainID string, ids []string) ([][]float32, error)
	KNNProducts(ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64) ([]domain.CommerceProduct, error)
}

// Interactions provides engagement aggregates for the popularity fallback.
type Interactions interface {
	Popularity(ctx context.Context, domainID string) (map[string]float64, error)
}

// Embedder vectorizes free-text intent.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
