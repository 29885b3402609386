// Package searchcore is the embeddable entry point for the hybrid
// product search core: conversational search with refinement, and the
// recommendation engines, over Redis Stack.
package searchcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatterdesk/searchcore/internal/db"
	dbRedis "github.com/chatterdesk/searchcore/internal/db/redis"
	"github.com/chatterdesk/searchcore/internal/domain"
	catalogrepo "github.com/chatterdesk/searchcore/internal/repository/catalog"
	interactionsrepo "github.com/chatterdesk/searchcore/internal/repository/interactions"
	pagesrepo "github.com/chatterdesk/searchcore/internal/repository/pages"
	searchrepo "github.com/chatterdesk/searchcore/internal/repository/search"
	openaitransport "github.com/chatterdesk/searchcore/internal/transport/openai"
	"github.com/chatterdesk/searchcore/internal/usecase/consolidate"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
	"github.com/chatterdesk/searchcore/internal/usecase/exact"
	"github.com/chatterdesk/searchcore/internal/usecase/fts"
	"github.com/chatterdesk/searchcore/internal/usecase/hybrid"
	"github.com/chatterdesk/searchcore/internal/usecase/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/refine"
	"github.com/chatterdesk/searchcore/internal/usecase/vector"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the searchcore entry point.
type Client struct {
	store        db.Store
	conv         *conversation.Service
	rec          *recommend.Service
	vec          *vector.Service
	interactions *interactionsrepo.Repo
}

// New creates a searchcore Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("searchcore: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("searchcore: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchcore: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	var embedder domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	} else if cfg.openAIKey != "" {
		embedder = openaitransport.NewEmbedder(&openaitransport.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.embeddingDims,
			Provider:   "openai",
		})
	}

	contentRepo := searchrepo.New(store, cfg.keyPrefix)
	catRepo := catalogrepo.New(store, cfg.keyPrefix)
	pageRepo := pagesrepo.New(store, cfg.keyPrefix)
	intRepo := interactionsrepo.New(store, cfg.keyPrefix)

	ftsSvc := fts.New(contentRepo)
	hybridSvc := hybrid.New(
		ftsSvc, contentRepo, embedder,
		hybrid.Weights{FTS: cfg.ftsWeight, Semantic: cfg.semanticWeight},
		cfg.engineTimeout, cfg.intentThreshold,
	)
	exactSvc := exact.New(catRepo, pageRepo, cfg.skuContextRadius)
	vecSvc := vector.New(catRepo, intRepo, embedder, vector.Thresholds{
		Reference: cfg.referenceThreshold,
		Intent:    cfg.intentThreshold,
	}, cfg.popularityDivisor)
	consSvc := consolidate.New(cfg.relatedPageThreshold)
	refSvc := refine.New(refine.Config{
		MinResults:        cfg.minResults,
		HomogeneitySpread: cfg.homogeneitySpread,
		PriceBandLow:      cfg.priceBandLow,
		PriceBandHigh:     cfg.priceBandHigh,
		RankingCutoff:     cfg.rankingCutoff,
	})
	recSvc := recommend.New(intRepo, catRepo, recommend.Config{
		JaccardThreshold:   cfg.jaccardThreshold,
		MaxSimilarSessions: cfg.maxSimilarSessions,
	})

	convSvc := conversation.New(
		hybridSvc, exactSvc, catRepo, consSvc, refSvc, embedder,
		cfg.intentThreshold,
	)

	return &Client{
		store:        store,
		conv:         convSvc,
		rec:          recSvc,
		vec:          vecSvc,
		interactions: intRepo,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs one conversational search turn.
func (c *Client) Search(ctx context.Context, query string, conv Conversation) (Outcome, error) {
	out, err := c.conv.Search(ctx, query, toConversationContext(conv))
	if err != nil {
		return Outcome{}, err
	}
	return fromOutcome(out), nil
}

// Recommend runs the engine chain for a session: collaborative
// filtering first, content-based when collaborative comes back empty,
// tenant popularity as the last resort. A cold-start session with no
// popular products yields an empty list, never an error.
func (c *Client) Recommend(ctx context.Context, q RecommendationQuery) []Recommendation {
	rq := toRecommendQuery(q)
	if out := c.rec.Collaborative(ctx, rq); len(out) > 0 {
		return fromRecommendations(out)
	}
	if out := c.rec.ContentBased(ctx, rq); len(out) > 0 {
		return fromRecommendations(out)
	}
	return fromRecommendations(c.rec.Popular(ctx, rq))
}

// SimilarProducts runs the vector engine directly: seed products or a
// free-text intent, with the popularity fallback when neither is given.
func (c *Client) SimilarProducts(ctx context.Context, q SimilarQuery) ([]Recommendation, error) {
	out, err := c.vec.Search(ctx, toVectorQuery(q))
	if err != nil {
		return nil, err
	}
	return fromRecommendations(out), nil
}

// RecordInteraction persists a click or purchase so the collaborative
// and popularity engines have a substrate.
func (c *Client) RecordInteraction(ctx context.Context, ev Interaction) error {
	return c.interactions.Record(ctx, domain.InteractionEvent{
		SessionID: ev.SessionID,
		DomainID:  ev.DomainID,
		ProductID: ev.ProductID,
		Clicked:   ev.Clicked,
		Purchased: ev.Purchased,
	})
}

// embedderAdapter wraps a public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"searchcore: embedder not configured (use WithOpenAI or WithEmbedder)",
	)
}
