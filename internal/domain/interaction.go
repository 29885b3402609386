package domain

// Engagement weights. A purchase implies higher intent than a click alone,
// so it contributes more to popularity and collaborative scores.
const (
	ClickWeight    = 2.0
	PurchaseWeight = 3.0
)

// InteractionEvent is a read-only record of a user touching a product
// within a chat session. Substrate for collaborative filtering and
// popularity scoring.
type InteractionEvent struct {
	SessionID string
	DomainID  string
	ProductID string
	Clicked   bool
	Purchased bool
}

// EngagementScore returns the weighted engagement contribution of one event.
func (e InteractionEvent) EngagementScore() float64 {
	var score float64
	if e.Clicked {
		score += ClickWeight
	}
	if e.Purchased {
		score += PurchaseWeight
	}
	return score
}

// JaccardSimilarity computes |A∩B| / |A∪B| for two product-ID sets.
// Returns 0 when both sets are empty.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
