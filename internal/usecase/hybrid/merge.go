package hybrid

import (
	"sort"

	"github.com/chatterdesk/searchcore/internal/domain/search/result"
)

// Weights controls score blending. Both input scores are already
// normalized to [0,1] before blending.
type Weights struct {
	FTS      float64 // default 0.6
	Semantic float64 // default 0.4
}

// mergeWeighted deduplicates FTS and semantic hits by item ID.
// An item present in both lists gets fts*wf + sem*ws; an item present in
// one list keeps its single-source weighted score. Returns the merged
// list sorted descending by blended score plus the number of duplicates
// collapsed.
func mergeWeighted(ftsHits, semHits []result.Result, w Weights) ([]result.Result, int) {
	type scored struct {
		res   result.Result
		score float64
	}

	merged := make(map[string]*scored, len(ftsHits)+len(semHits))
	order := make([]string, 0, len(ftsHits)+len(semHits))

	for _, r := range ftsHits {
		merged[r.ID()] = &scored{res: r, score: r.Score() * w.FTS}
		order = append(order, r.ID())
	}

	deduplicated := 0
	for _, r := range semHits {
		if existing, ok := merged[r.ID()]; ok {
			existing.score += r.Score() * w.Semantic
			deduplicated++
			// FTS entry is kept: it carries the highlighted snippet.
		} else {
			merged[r.ID()] = &scored{res: r, score: r.Score() * w.Semantic}
			order = append(order, r.ID())
		}
	}

	results := make([]result.Result, 0, len(merged))
	for _, id := range order {
		s := merged[id]
		results = append(results, s.res.WithScore(s.score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	return results, deduplicated
}
