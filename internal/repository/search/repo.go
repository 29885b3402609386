// Package search adapts raw FT.SEARCH results into domain search hits.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterdesk/searchcore/internal/db"
	"github.com/chatterdesk/searchcore/internal/db/redis"
	"github.com/chatterdesk/searchcore/internal/domain/search/engine"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
)

// store is the consumer interface for search operations.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo executes tenant-scoped full-text and vector queries.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// ContentIndex returns the per-tenant content FT index name.
func (r *Repo) ContentIndex(domainID string) string {
	return fmt.Sprintf("%s%s:content:idx", r.keyPrefix, domainID)
}

// contentKeyPrefix returns the hash key prefix content doc IDs are stored under.
func (r *Repo) contentKeyPrefix(domainID string) string {
	return fmt.Sprintf("%s%s:content:", r.keyPrefix, domainID)
}

// FullText runs a ranked, highlighted text search scoped to one tenant.
// Returns hits plus the total match count for pagination.
func (r *Repo) FullText(ctx context.Context, req *request.Request) ([]result.Result, int, error) {
	f := req.Filters()

	q := &db.TextQuery{
		IndexName:    r.ContentIndex(f.DomainID),
		Query:        buildTextQuery(req.Query(), f),
		TopK:         req.Limit(),
		Offset:       req.Offset(),
		ReturnFields: []string{"title", "url", "content"},
		Highlight:    []string{"content"},
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("full-text search %s: %w", f.DomainID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, 0, nil
	}

	prefix := r.contentKeyPrefix(f.DomainID)
	maxScore := 0.0
	for _, e := range sr.Entries {
		if e.Score > maxScore {
			maxScore = e.Score
		}
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		score := e.Score
		if maxScore > 0 {
			score = e.Score / maxScore // BM25 scores are unbounded; rescale to [0,1]
		}
		res := result.New(strings.TrimPrefix(e.Key, prefix), score, e.Fields["content"], engine.FTS).
			WithTitle(e.Fields["title"]).
			WithURL(e.Fields["url"])
		results = append(results, res)
	}

	return results, sr.Total, nil
}

// KNN runs a vector nearest-neighbor search over the tenant's content
// corpus, dropping hits below minSimilarity.
func (r *Repo) KNN(
	ctx context.Context, domainID string, vector []float32, k int, minSimilarity float64,
) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName:    r.ContentIndex(domainID),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"title", "url", "content", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", domainID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := r.contentKeyPrefix(domainID)
	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Score < minSimilarity {
			continue
		}
		res := result.New(strings.TrimPrefix(e.Key, prefix), e.Score, e.Fields["content"], engine.Vector).
			WithTitle(e.Fields["title"]).
			WithURL(e.Fields["url"])
		results = append(results, res)
	}

	return results, nil
}

// buildTextQuery combines escaped query text with tag/date filters.
// An empty filter set searches the whole tenant corpus.
func buildTextQuery(query string, f request.Filters) string {
	parts := []string{fmt.Sprintf("@content:(%s)", redis.EscapeQuery(query))}

	if f.Sentiment != "" {
		parts = append(parts, fmt.Sprintf("@sentiment:{%s}", redis.EscapeTag(f.Sentiment)))
	}

	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		from := "-inf"
		to := "+inf"
		if !f.DateFrom.IsZero() {
			from = fmt.Sprintf("%d", f.DateFrom.Unix())
		}
		if !f.DateTo.IsZero() {
			to = fmt.Sprintf("%d", f.DateTo.Unix())
		}
		parts = append(parts, fmt.Sprintf("@created_at:[%s %s]", from, to))
	}

	return strings.Join(parts, " ")
}
