// Package catalog reads tenant-scoped commerce product records.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterdesk/searchcore/internal/db"
	"github.com/chatterdesk/searchcore/internal/db/redis"
	"github.com/chatterdesk/searchcore/internal/domain"
)

// store is the consumer interface for catalog reads.
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo reads commerce catalog products from the store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a catalog repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) productKey(domainID, id string) string {
	return fmt.Sprintf("%s%s:product:%s", r.keyPrefix, domainID, id)
}

func (r *Repo) productIndex(domainID string) string {
	return fmt.Sprintf("%s%s:product:idx", r.keyPrefix, domainID)
}

var productReturnFields = []string{
	fieldName, fieldSlug, fieldPermalink, fieldSKU, fieldPrice,
	fieldStock, fieldCats, fieldTags, fieldShortDesc, fieldDesc,
}

// ByIDs fetches products by identifier. Missing products are skipped.
func (r *Repo) ByIDs(ctx context.Context, domainID string, ids []string) ([]domain.CommerceProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(domainID, id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("products by ids %s: %w", domainID, err)
	}

	products := make([]domain.CommerceProduct, 0, len(ids))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		products = append(products, productFromFields(ids[i], fields))
	}
	return products, nil
}

// BySKU looks up products whose identifier field matches the token exactly.
func (r *Repo) BySKU(ctx context.Context, domainID, sku string, limit int) ([]domain.CommerceProduct, error) {
	q := &db.TextQuery{
		IndexName:    r.productIndex(domainID),
		Query:        fmt.Sprintf("@sku:{%s}", redis.EscapeTag(sku)),
		TopK:         limit,
		ReturnFields: productReturnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sku lookup %s: %w", domainID, err)
	}

	return r.parseProducts(domainID, sr), nil
}

// ByCategories returns products tagged with any of the given categories.
func (r *Repo) ByCategories(ctx context.Context, domainID string, categories []string, limit int) ([]domain.CommerceProduct, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(categories))
	for i, c := range categories {
		escaped[i] = redis.EscapeTag(c)
	}
	q := &db.TextQuery{
		IndexName:    r.productIndex(domainID),
		Query:        fmt.Sprintf("@categories:{%s}", strings.Join(escaped, "|")),
		TopK:         limit,
		ReturnFields: productReturnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("category lookup %s: %w", domainID, err)
	}

	return r.parseProducts(domainID, sr), nil
}

// KNNProducts finds the nearest products to the given embedding, dropping
// hits below minSimilarity. Similarity is populated on each product.
func (r *Repo) KNNProducts(
	ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64,
) ([]domain.CommerceProduct, error) {
	fields := append([]string{"__vector_score"}, productReturnFields...)
	q := &db.KNNQuery{
		IndexName:    r.productIndex(domainID),
		Vector:       vector,
		K:            k,
		ReturnFields: fields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("product knn %s: %w", domainID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := fmt.Sprintf("%s%s:product:", r.keyPrefix, domainID)
	products := make([]domain.CommerceProduct, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Score < minSimilarity {
			continue
		}
		p := productFromFields(strings.TrimPrefix(e.Key, prefix), e.Fields)
		p.Similarity = e.Score
		p.HasSimilarity = true
		products = append(products, p)
	}
	return products, nil
}

// Vectors fetches the stored embeddings for the given product IDs.
// Products without a stored embedding are skipped.
func (r *Repo) Vectors(ctx context.Context, domainID string, ids []string) ([][]float32, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(domainID, id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("product vectors %s: %w", domainID, err)
	}

	vectors := make([][]float32, 0, len(hashes))
	for _, fields := range hashes {
		if v := bytesToVector(fields[fieldVector]); v != nil {
			vectors = append(vectors, v)
		}
	}
	return vectors, nil
}

func (r *Repo) parseProducts(domainID string, sr *db.SearchResult) []domain.CommerceProduct {
	if sr == nil || sr.Total == 0 {
		return nil
	}
	prefix := fmt.Sprintf("%s%s:product:", r.keyPrefix, domainID)
	products := make([]domain.CommerceProduct, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		products = append(products, productFromFields(strings.TrimPrefix(e.Key, prefix), e.Fields))
	}
	return products
}
