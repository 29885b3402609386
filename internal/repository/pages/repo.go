// Package pages reads crawled page content produced by the scraping pipeline.
package pages

import (
	"context"
	"fmt"

	"github.com/chatterdesk/searchcore/internal/db"
	"github.com/chatterdesk/searchcore/internal/db/redis"
	"github.com/chatterdesk/searchcore/internal/domain"
)

// store is the consumer interface for page reads.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo reads scraped pages from the tenant content index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a pages repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) contentIndex(domainID string) string {
	return fmt.Sprintf("%s%s:content:idx", r.keyPrefix, domainID)
}

var pageReturnFields = []string{"title", "url", "content"}

// Similar finds the pages nearest to the given embedding, dropping hits
// below minSimilarity.
func (r *Repo) Similar(
	ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64,
) ([]domain.ScrapedPage, error) {
	fields := append([]string{"__vector_score"}, pageReturnFields...)
	q := &db.KNNQuery{
		IndexName:    r.contentIndex(domainID),
		Vector:       vector,
		K:            k,
		ReturnFields: fields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("page knn %s: %w", domainID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	out := make([]domain.ScrapedPage, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Score < minSimilarity {
			continue
		}
		out = append(out, domain.ScrapedPage{
			URL:        e.Fields["url"],
			Title:      e.Fields["title"],
			Content:    e.Fields["content"],
			Similarity: e.Score,
		})
	}
	return out, nil
}

// Containing returns pages whose content contains the literal token,
// with full (unhighlighted) content. Used by the exact-match fallback.
func (r *Repo) Containing(
	ctx context.Context, domainID, token string, limit int,
) ([]domain.ScrapedPage, error) {
	q := &db.TextQuery{
		IndexName:    r.contentIndex(domainID),
		Query:        fmt.Sprintf("@content:(%s)", redis.EscapeQuery(token)),
		TopK:         limit,
		ReturnFields: pageReturnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("page content search %s: %w", domainID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	out := make([]domain.ScrapedPage, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		out = append(out, domain.ScrapedPage{
			URL:     e.Fields["url"],
			Title:   e.Fields["title"],
			Content: e.Fields["content"],
		})
	}
	return out, nil
}
