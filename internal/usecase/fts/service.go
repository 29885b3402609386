// Package fts implements the full-text search engine.
package fts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Response carries ranked hits plus the total match count for pagination.
type Response struct {
	Results    []result.Result
	TotalCount int
}

// Service executes ranked, filtered text queries.
type Service struct {
	repo Repository
}

// New creates a full-text search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search runs a ranked text query. An empty or blank query yields an
// empty response, not an error. A store failure surfaces as
// domain.ErrDatastore so the hybrid layer can decide whether to degrade
// to vector-only results.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	if strings.TrimSpace(req.Query()) == "" {
		return Response{}, nil
	}

	start := time.Now()
	results, total, err := s.repo.FullText(ctx, req)
	metrics.EngineRequestDuration.WithLabelValues("fts").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EngineRequestsTotal.WithLabelValues("fts", "degraded").Inc()
		return Response{}, fmt.Errorf("%w: %w", domain.ErrDatastore, err)
	}

	metrics.EngineRequestsTotal.WithLabelValues("fts", "ok").Inc()
	metrics.EngineResultCount.WithLabelValues("fts").Observe(float64(len(results)))

	return Response{Results: results, TotalCount: total}, nil
}
