package recommend

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// Interactions provides session viewing history and engagement aggregates.
type Interactions interface {
	ViewedProducts(ctx context.Context, domainID, sessionID string) ([]string, error)
	SessionsForProduct(ctx context.Context, domainID, productID string) ([]string, error)
	Engagement(ctx context.Context, domainID, sessionID string) (map[string]float64, error)
	Popularity(ctx context.Context, domainID string) (map[string]float64, error)
}

// Catalog provides product attribute lookups for content-based filtering.
type Catalog interface {
	ByIDs(ctx context.Context, domainID string, ids []string) ([]domain.CommerceProduct, error)
	ByCategories(ctx context.Context, domainID string, categories []string, limit int) ([]domain.CommerceProduct, error)
}
