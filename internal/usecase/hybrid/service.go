// Package hybrid merges full-text and vector search into one ranked,
// deduplicated, paginated result list.
package hybrid

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// SearchMetrics reports per-leg counts for observability and tests.
type SearchMetrics struct {
	FTSCount          int
	SemanticCount     int
	MergedCount       int
	DeduplicatedCount int
}

// Response carries the blended result list plus leg metrics.
type Response struct {
	Results []result.Result
	Metrics SearchMetrics
}

// Service runs both search legs concurrently and blends their scores.
type Service struct {
	text          TextSearcher
	semantic      SemanticRepository
	embed         Embedder
	weights       Weights
	engineTimeout time.Duration
	semanticFloor float64
}

// New creates a hybrid search service. engineTimeout bounds each leg;
// a timed-out leg is treated like a failed one and the search proceeds
// with whatever the other leg returned.
func New(
	text TextSearcher, semantic SemanticRepository, embed Embedder,
	weights Weights, engineTimeout time.Duration, semanticFloor float64,
) *Service {
	if weights.FTS <= 0 && weights.Semantic <= 0 {
		weights = Weights{FTS: 0.6, Semantic: 0.4}
	}
	return &Service{
		text:          text,
		semantic:      semantic,
		embed:         embed,
		weights:       weights,
		engineTimeout: engineTimeout,
		semanticFloor: semanticFloor,
	}
}

// Search issues the FTS and semantic legs concurrently and joins them.
// A failure in one leg never cancels the other; the failed leg simply
// contributes zero results. Results below req.MinScore are dropped after
// blending, and the final list is truncated to req.Limit.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	type legOutcome struct {
		results []result.Result
		err     error
	}

	ftsCh := make(chan legOutcome, 1)
	semCh := make(chan legOutcome, 1)

	go func() {
		legCtx, cancel := s.legContext(ctx)
		defer cancel()
		resp, err := s.text.Search(legCtx, req)
		ftsCh <- legOutcome{results: resp.Results, err: err}
	}()

	go func() {
		legCtx, cancel := s.legContext(ctx)
		defer cancel()
		results, err := s.semanticLeg(legCtx, req)
		semCh <- legOutcome{results: results, err: err}
	}()

	ftsOut := <-ftsCh
	semOut := <-semCh

	if ftsOut.err != nil {
		log.Warn("fts leg degraded, continuing with vector-only results",
			zap.String("domain_id", req.Filters().DomainID), zap.Error(ftsOut.err))
		ftsOut.results = nil
	}
	if semOut.err != nil {
		log.Warn("semantic leg degraded, continuing with fts-only results",
			zap.String("domain_id", req.Filters().DomainID), zap.Error(semOut.err))
		semOut.results = nil
	}

	mergedResults, deduplicated := mergeWeighted(ftsOut.results, semOut.results, s.weights)

	if req.MinScore() > 0 {
		filtered := mergedResults[:0]
		for _, r := range mergedResults {
			if r.Score() >= req.MinScore() {
				filtered = append(filtered, r)
			}
		}
		mergedResults = filtered
	}

	mergedCount := len(mergedResults)
	if len(mergedResults) > req.Limit() {
		mergedResults = mergedResults[:req.Limit()]
	}

	metrics.EngineRequestDuration.WithLabelValues("hybrid").Observe(time.Since(start).Seconds())
	metrics.EngineResultCount.WithLabelValues("hybrid").Observe(float64(len(mergedResults)))

	return Response{
		Results: mergedResults,
		Metrics: SearchMetrics{
			FTSCount:          len(ftsOut.results),
			SemanticCount:     len(semOut.results),
			MergedCount:       mergedCount,
			DeduplicatedCount: deduplicated,
		},
	}, nil
}

// semanticLeg embeds the query and runs KNN. An embedding failure is a
// leg failure, not a request failure.
func (s *Service) semanticLeg(ctx context.Context, req *request.Request) ([]result.Result, error) {
	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, err
	}
	return s.semantic.KNN(ctx, req.Filters().DomainID, emb.Embedding, req.Limit()+req.Offset(), s.semanticFloor)
}

func (s *Service) legContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.engineTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.engineTimeout)
}
