// Package vector implements similarity-based product recommendation:
// reference mode from seed products, intent mode from free text, and a
// popularity fallback when neither is available.
package vector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Thresholds holds the similarity floors per query mode. Intent text is
// noisier than product embeddings, so its bar is lower.
type Thresholds struct {
	Reference float64 // default 0.70
	Intent    float64 // default 0.65
}

// PopularityDivisor normalizes raw engagement into [0,1]: score/divisor
// capped at 1.0.
const defaultPopularityDivisor = 10

// Query selects the similarity mode. With seed ProductIDs the engine
// searches around their mean embedding; with DetectedIntent it embeds the
// intent text; with neither it falls back to popularity ranking.
type Query struct {
	DomainID          string
	ProductIDs        []string
	DetectedIntent    string
	ExcludeProductIDs []string
	Limit             int
}

// Service is the vector similarity engine.
type Service struct {
	catalog      Catalog
	interactions Interactions
	embed        Embedder
	thresholds   Thresholds
	popDivisor   float64
}

// New creates a vector similarity service.
func New(catalog Catalog, interactions Interactions, embed Embedder, thresholds Thresholds, popDivisor float64) *Service {
	if popDivisor <= 0 {
		popDivisor = defaultPopularityDivisor
	}
	return &Service{
		catalog:      catalog,
		interactions: interactions,
		embed:        embed,
		thresholds:   thresholds,
		popDivisor:   popDivisor,
	}
}

// Search returns scored product candidates. Every failure path degrades
// to an empty list: similarity search must never block the chat.
func (s *Service) Search(ctx context.Context, q Query) ([]recommend.Result, error) {
	if q.DomainID == "" {
		return nil, domain.ErrMissingTenant
	}
	if q.Limit <= 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		metrics.EngineRequestDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
	}()

	switch {
	case len(q.ProductIDs) > 0:
		return s.referenceSearch(ctx, q), nil
	case q.DetectedIntent != "":
		return s.intentSearch(ctx, q), nil
	default:
		return s.popularFallback(ctx, q), nil
	}
}

// referenceSearch queries around the mean embedding of the seed products.
// Seeds are excluded from results even when they match themselves.
func (s *Service) referenceSearch(ctx context.Context, q Query) []recommend.Result {
	log := logger.FromContext(ctx)

	vectors, err := s.catalog.Vectors(ctx, q.DomainID, q.ProductIDs)
	if err != nil {
		log.Warn("seed vector fetch failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		metrics.EngineRequestsTotal.WithLabelValues("vector", "degraded").Inc()
		return nil
	}

	mean := domain.MeanVector(vectors)
	if mean == nil {
		// No stored embeddings for any seed: an all-zero query vector
		// would match everything meaninglessly, so skip the query.
		return nil
	}

	// Over-fetch so results survive seed exclusion.
	k := q.Limit + len(q.ProductIDs)
	products, err := s.catalog.KNNProducts(ctx, q.DomainID, mean, k, s.thresholds.Reference)
	if err != nil {
		log.Warn("reference knn failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		metrics.EngineRequestsTotal.WithLabelValues("vector", "degraded").Inc()
		return nil
	}

	exclude := toSet(append(q.ExcludeProductIDs, q.ProductIDs...))
	results := make([]recommend.Result, 0, q.Limit)
	for _, p := range products {
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		results = append(results, recommend.Result{
			ProductID: p.ID,
			Score:     p.Similarity,
			Algorithm: recommend.VectorSimilarity,
			Reason:    fmt.Sprintf("Similar to %d product(s) you looked at", len(q.ProductIDs)),
			Metadata:  recommend.Metadata{RawScore: p.Similarity},
		})
		if len(results) == q.Limit {
			break
		}
	}

	metrics.EngineRequestsTotal.WithLabelValues("vector", "ok").Inc()
	metrics.EngineResultCount.WithLabelValues("vector").Observe(float64(len(results)))
	return results
}

// intentSearch embeds the detected intent text and queries around it with
// the looser threshold. An embedding provider failure degrades to empty.
func (s *Service) intentSearch(ctx context.Context, q Query) []recommend.Result {
	log := logger.FromContext(ctx)

	emb, err := s.embed.Embed(ctx, q.DetectedIntent)
	if err != nil {
		log.Warn("intent embedding failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		metrics.EngineRequestsTotal.WithLabelValues("vector", "degraded").Inc()
		return nil
	}

	products, err := s.catalog.KNNProducts(ctx, q.DomainID, emb.Embedding, q.Limit+len(q.ExcludeProductIDs), s.thresholds.Intent)
	if err != nil {
		log.Warn("intent knn failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		metrics.EngineRequestsTotal.WithLabelValues("vector", "degraded").Inc()
		return nil
	}

	exclude := toSet(q.ExcludeProductIDs)
	results := make([]recommend.Result, 0, q.Limit)
	for _, p := range products {
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		results = append(results, recommend.Result{
			ProductID: p.ID,
			Score:     p.Similarity,
			Algorithm: recommend.VectorSimilarity,
			Reason:    fmt.Sprintf("Matches what you're looking for: %s", q.DetectedIntent),
			Metadata:  recommend.Metadata{RawScore: p.Similarity, Intent: q.DetectedIntent},
		})
		if len(results) == q.Limit {
			break
		}
	}

	metrics.EngineRequestsTotal.WithLabelValues("vector", "ok").Inc()
	metrics.EngineResultCount.WithLabelValues("vector").Observe(float64(len(results)))
	return results
}

// popularFallback ranks products by aggregated engagement when there are
// neither seeds nor intent. Raw engagement is divided by the popularity
// divisor and capped at 1.0.
func (s *Service) popularFallback(ctx context.Context, q Query) []recommend.Result {
	log := logger.FromContext(ctx)

	scores, err := s.interactions.Popularity(ctx, q.DomainID)
	if err != nil {
		log.Warn("popularity fetch failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		metrics.EngineRequestsTotal.WithLabelValues("vector", "degraded").Inc()
		return nil
	}

	exclude := toSet(q.ExcludeProductIDs)
	results := make([]recommend.Result, 0, len(scores))
	for id, raw := range scores {
		if _, skip := exclude[id]; skip {
			continue
		}
		score := raw / s.popDivisor
		if score > 1 {
			score = 1
		}
		results = append(results, recommend.Result{
			ProductID: id,
			Score:     score,
			Algorithm: recommend.Popular,
			Reason:    "Popular with other customers",
			Metadata:  recommend.Metadata{RawScore: raw},
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProductID < results[j].ProductID // stable order for equal scores
	})
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	metrics.EngineRequestsTotal.WithLabelValues("vector", "ok").Inc()
	metrics.EngineResultCount.WithLabelValues("vector").Observe(float64(len(results)))
	return results
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
