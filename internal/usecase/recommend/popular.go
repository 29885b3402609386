package recommend

import (
	"context"

	"go.uber.org/zap"

	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
)

// Popular ranks products by tenant-wide aggregated engagement. Raw score
// is the engagement sum (click=2, purchase=3 per event), normalized
// against the batch maximum. Works without any session history, so it is
// the cold-start fallback for the other engines.
func (s *Service) Popular(ctx context.Context, q Query) []domrec.Result {
	if q.Limit <= 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	scores, err := s.interactions.Popularity(ctx, q.DomainID)
	if err != nil {
		log.Warn("popularity fetch failed", zap.String("domain_id", q.DomainID), zap.Error(err))
		return nil
	}

	exclude := toSet(q.ExcludeProductIDs)
	results := make([]domrec.Result, 0, len(scores))
	for pid, raw := range scores {
		if _, skip := exclude[pid]; skip {
			continue
		}
		results = append(results, domrec.Result{
			ProductID: pid,
			Algorithm: domrec.Popular,
			Reason:    "Popular with other customers",
			Metadata:  domrec.Metadata{RawScore: raw},
		})
	}

	domrec.Normalize(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	metrics.EngineResultCount.WithLabelValues("popular").Observe(float64(len(results)))
	return results
}
