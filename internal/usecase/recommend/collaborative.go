// Package recommend implements the recommendation engines: collaborative
// filtering, content-based filtering, and the popularity scorer. They are
// independent scorers and may run concurrently against each other.
package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain"
	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Query holds recommendation parameters shared by all engines.
type Query struct {
	SessionID         string
	DomainID          string
	ExcludeProductIDs []string
	Limit             int
}

// Config holds collaborative filtering tuning.
type Config struct {
	JaccardThreshold   float64 // session overlap floor, default 0.30
	MaxSimilarSessions int     // default 20
}

// Service runs the recommendation engines.
type Service struct {
	interactions Interactions
	catalog      Catalog
	cfg          Config
}

// New creates a recommendation service.
func New(interactions Interactions, catalog Catalog, cfg Config) *Service {
	if cfg.JaccardThreshold <= 0 {
		cfg.JaccardThreshold = 0.30
	}
	if cfg.MaxSimilarSessions <= 0 {
		cfg.MaxSimilarSessions = 20
	}
	return &Service{interactions: interactions, catalog: catalog, cfg: cfg}
}

// Collaborative recommends products that sessions with overlapping
// viewing histories engaged with. Three sequential phases, each feeding
// the next: viewed set, similar sessions, engagement aggregation.
// Cold start and every underlying failure degrade to an empty list.
func (s *Service) Collaborative(ctx context.Context, q Query) []domrec.Result {
	if q.Limit <= 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	// Phase 1: this session's viewing history.
	viewed, err := s.interactions.ViewedProducts(ctx, q.DomainID, q.SessionID)
	if err != nil {
		log.Warn("viewed products fetch failed", zap.String("session_id", q.SessionID), zap.Error(err))
		return nil
	}
	if len(viewed) == 0 {
		return nil // cold start
	}
	viewedSet := toSet(viewed)

	// Phase 2: sessions sharing products, ranked by Jaccard similarity.
	similar := s.similarSessions(ctx, q, viewedSet)
	if len(similar) == 0 {
		return nil
	}

	// Phase 3: engagement-weighted aggregation over similar sessions.
	exclude := toSet(q.ExcludeProductIDs)
	raw := make(map[string]float64)
	contributors := make(map[string]int)
	for _, sess := range similar {
		engagement, err := s.interactions.Engagement(ctx, q.DomainID, sess.id)
		if err != nil {
			log.Warn("engagement fetch failed", zap.String("session_id", sess.id), zap.Error(err))
			return nil
		}
		for pid, weight := range engagement {
			if _, seen := viewedSet[pid]; seen {
				continue
			}
			if _, skip := exclude[pid]; skip {
				continue
			}
			raw[pid] += weight
			contributors[pid]++
		}
	}

	results := make([]domrec.Result, 0, len(raw))
	for pid, score := range raw {
		results = append(results, domrec.Result{
			ProductID: pid,
			Algorithm: domrec.Collaborative,
			Reason:    "Customers with similar interests also looked at this",
			Metadata: domrec.Metadata{
				RawScore:         score,
				SimilarUserCount: contributors[pid],
			},
		})
	}

	domrec.Normalize(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	metrics.EngineResultCount.WithLabelValues("collaborative").Observe(float64(len(results)))
	return results
}

type scoredSession struct {
	id         string
	similarity float64
}

// similarSessions finds other sessions whose viewed-product sets overlap
// this one's, keeping only those at or above the Jaccard threshold and
// capping at the configured maximum.
func (s *Service) similarSessions(ctx context.Context, q Query, viewedSet map[string]struct{}) []scoredSession {
	log := logger.FromContext(ctx)

	candidates := make(map[string]struct{})
	for pid := range viewedSet {
		sessions, err := s.interactions.SessionsForProduct(ctx, q.DomainID, pid)
		if err != nil {
			log.Warn("session xref fetch failed", zap.String("product_id", pid), zap.Error(err))
			return nil
		}
		for _, sid := range sessions {
			if sid != q.SessionID {
				candidates[sid] = struct{}{}
			}
		}
	}

	var similar []scoredSession
	for sid := range candidates {
		theirViewed, err := s.interactions.ViewedProducts(ctx, q.DomainID, sid)
		if err != nil {
			log.Warn("candidate history fetch failed", zap.String("session_id", sid), zap.Error(err))
			return nil
		}
		sim := domain.JaccardSimilarity(viewedSet, toSet(theirViewed))
		if sim >= s.cfg.JaccardThreshold {
			similar = append(similar, scoredSession{id: sid, similarity: sim})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].similarity != similar[j].similarity {
			return similar[i].similarity > similar[j].similarity
		}
		return similar[i].id < similar[j].id
	})
	if len(similar) > s.cfg.MaxSimilarSessions {
		similar = similar[:s.cfg.MaxSimilarSessions]
	}
	return similar
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
