// Package recommend defines the recommendation result shape shared by all
// recommendation engines.
package recommend

import "sort"

// Algorithm identifies which scorer produced a recommendation.
type Algorithm string

// Recommendation algorithm constants.
const (
	Collaborative    Algorithm = "collaborative"
	ContentBased     Algorithm = "content_based"
	VectorSimilarity Algorithm = "vector_similarity"
	Popular          Algorithm = "popular"
)

// Metadata exposes the pre-normalization internals of a recommendation
// for transparency and debugging.
type Metadata struct {
	RawScore         float64
	SimilarUserCount int
	Intent           string
}

// Result is a scored product candidate. Score is always in [0,1]:
// raw scores are normalized against the maximum raw score in the batch.
type Result struct {
	ProductID string
	Score     float64
	Algorithm Algorithm
	Reason    string
	Metadata  Metadata
}

// Normalize rescales Score to RawScore / max(RawScore) across the batch
// and sorts descending by score. With a non-positive maximum every score
// is 0. Operates in place and returns the slice for chaining.
func Normalize(results []Result) []Result {
	var maxRaw float64
	for i := range results {
		if results[i].Metadata.RawScore > maxRaw {
			maxRaw = results[i].Metadata.RawScore
		}
	}
	for i := range results {
		if maxRaw > 0 {
			results[i].Score = results[i].Metadata.RawScore / maxRaw
		} else {
			results[i].Score = 0
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
