package exact

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// Catalog looks up products by their identifier field.
type Catalog interface {
	BySKU(ctx context.Context, domainID, sku string, limit int) ([]domain.CommerceProduct, error)
}

// Pages finds crawled pages containing a literal token.
type Pages interface {
	Containing(ctx context.Context, domainID, token string, limit int) ([]domain.ScrapedPage, error)
}
