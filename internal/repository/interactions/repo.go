// Package interactions records and reads user engagement events.
package interactions

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// store is the consumer interface for interaction data.
type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	HIncrByFloat(ctx context.Context, key, field string, delta float64) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo persists interaction events as cross-reference sets plus
// engagement counters, keyed per tenant.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an interactions repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) viewedKey(domainID, sessionID string) string {
	return fmt.Sprintf("%s%s:session:%s:viewed", r.keyPrefix, domainID, sessionID)
}

func (r *Repo) sessionsKey(domainID, productID string) string {
	return fmt.Sprintf("%s%s:product:%s:sessions", r.keyPrefix, domainID, productID)
}

func (r *Repo) engagementKey(domainID, sessionID string) string {
	return fmt.Sprintf("%s%s:session:%s:engagement", r.keyPrefix, domainID, sessionID)
}

func (r *Repo) popularityKey(domainID string) string {
	return fmt.Sprintf("%s%s:engagement", r.keyPrefix, domainID)
}

// Record stores one interaction event: membership both ways plus
// engagement counters for the session and the tenant-wide popularity tally.
func (r *Repo) Record(ctx context.Context, ev domain.InteractionEvent) error {
	if ev.DomainID == "" {
		return domain.ErrMissingTenant
	}
	if err := r.store.SAdd(ctx, r.viewedKey(ev.DomainID, ev.SessionID), ev.ProductID); err != nil {
		return fmt.Errorf("record viewed: %w", err)
	}
	if err := r.store.SAdd(ctx, r.sessionsKey(ev.DomainID, ev.ProductID), ev.SessionID); err != nil {
		return fmt.Errorf("record session xref: %w", err)
	}

	score := ev.EngagementScore()
	if score == 0 {
		return nil
	}
	if err := r.store.HIncrByFloat(ctx, r.engagementKey(ev.DomainID, ev.SessionID), ev.ProductID, score); err != nil {
		return fmt.Errorf("record engagement: %w", err)
	}
	if err := r.store.HIncrByFloat(ctx, r.popularityKey(ev.DomainID), ev.ProductID, score); err != nil {
		return fmt.Errorf("record popularity: %w", err)
	}
	return nil
}

// ViewedProducts returns the product IDs a session has interacted with.
func (r *Repo) ViewedProducts(ctx context.Context, domainID, sessionID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, r.viewedKey(domainID, sessionID))
	if err != nil {
		return nil, fmt.Errorf("viewed products: %w", err)
	}
	return ids, nil
}

// SessionsForProduct returns the sessions that interacted with a product.
func (r *Repo) SessionsForProduct(ctx context.Context, domainID, productID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, r.sessionsKey(domainID, productID))
	if err != nil {
		return nil, fmt.Errorf("sessions for product: %w", err)
	}
	return ids, nil
}

// Engagement returns per-product engagement weights for one session.
func (r *Repo) Engagement(ctx context.Context, domainID, sessionID string) (map[string]float64, error) {
	raw, err := r.store.HGetAll(ctx, r.engagementKey(domainID, sessionID))
	if err != nil {
		return nil, fmt.Errorf("session engagement: %w", err)
	}
	return parseScores(raw), nil
}

// Popularity returns tenant-wide per-product engagement weights.
func (r *Repo) Popularity(ctx context.Context, domainID string) (map[string]float64, error) {
	raw, err := r.store.HGetAll(ctx, r.popularityKey(domainID))
	if err != nil {
		return nil, fmt.Errorf("popularity: %w", err)
	}
	return parseScores(raw), nil
}

func parseScores(raw map[string]string) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for id, s := range raw {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			out[id] = v
		}
	}
	return out
}
