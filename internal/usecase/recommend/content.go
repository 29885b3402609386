package recommend

import (
	"context"

	"go.uber.org/zap"

	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// candidatePoolFactor over-fetches category candidates so results survive
// exclusion of already-viewed products.
const candidatePoolFactor = 3

// ContentBased recommends products whose categories and tags overlap the
// attributes of products the session already viewed. Raw score is the
// attribute overlap count, normalized against the batch maximum.
func (s *Service) ContentBased(ctx context.Context, q Query) []domrec.Result {
	if q.Limit <= 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	viewed, err := s.interactions.ViewedProducts(ctx, q.DomainID, q.SessionID)
	if err != nil {
		log.Warn("viewed products fetch failed", zap.String("session_id", q.SessionID), zap.Error(err))
		return nil
	}
	if len(viewed) == 0 {
		return nil // cold start
	}

	viewedProducts, err := s.catalog.ByIDs(ctx, q.DomainID, viewed)
	if err != nil {
		log.Warn("viewed product fetch failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		return nil
	}

	interestCats := make(map[string]struct{})
	interestTags := make(map[string]struct{})
	for _, p := range viewedProducts {
		for _, c := range p.Categories {
			interestCats[c] = struct{}{}
		}
		for _, t := range p.Tags {
			interestTags[t] = struct{}{}
		}
	}
	if len(interestCats) == 0 && len(interestTags) == 0 {
		return nil
	}

	candidates, err := s.catalog.ByCategories(ctx, q.DomainID, keys(interestCats), q.Limit*candidatePoolFactor)
	if err != nil {
		log.Warn("candidate fetch failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		return nil
	}

	viewedSet := toSet(viewed)
	exclude := toSet(q.ExcludeProductIDs)

	results := make([]domrec.Result, 0, len(candidates))
	for _, p := range candidates {
		if _, seen := viewedSet[p.ID]; seen {
			continue
		}
		if _, skip := exclude[p.ID]; skip {
			continue
		}

		overlap := 0
		for _, c := range p.Categories {
			if _, ok := interestCats[c]; ok {
				overlap++
			}
		}
		for _, t := range p.Tags {
			if _, ok := interestTags[t]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		results = append(results, domrec.Result{
			ProductID: p.ID,
			Algorithm: domrec.ContentBased,
			Reason:    "Similar to the kinds of products you've been browsing",
			Metadata:  domrec.Metadata{RawScore: float64(overlap)},
		})
	}

	domrec.Normalize(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	metrics.EngineResultCount.WithLabelValues("content_based").Observe(float64(len(results)))
	return results
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
