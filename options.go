package searchcore

import (
	"context"
	"time"
)

// Embedder turns text into a vector. Implementations wrap an embedding
// provider; the built-in OpenAI-compatible one is enabled via WithOpenAI.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is one embedding with token accounting.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string

	keyPrefix string

	openAIKey      string
	openAIBaseURL  string
	embeddingModel string
	embeddingDims  int
	embedder       Embedder

	ftsWeight            float64
	semanticWeight       float64
	referenceThreshold   float64
	intentThreshold      float64
	relatedPageThreshold float64
	engineTimeout        time.Duration
	skuContextRadius     int
	popularityDivisor    float64

	jaccardThreshold   float64
	maxSimilarSessions int

	minResults        int
	homogeneitySpread float64
	priceBandLow      float64
	priceBandHigh     float64
	rankingCutoff     float64
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:            "searchcore:",
		embeddingModel:       "text-embedding-3-small",
		embeddingDims:        1536,
		ftsWeight:            0.6,
		semanticWeight:       0.4,
		referenceThreshold:   0.70,
		intentThreshold:      0.65,
		relatedPageThreshold: 0.75,
		engineTimeout:        3 * time.Second,
		skuContextRadius:     250,
		popularityDivisor:    10,
		jaccardThreshold:     0.30,
		maxSimilarSessions:   20,
		minResults:           5,
		homogeneitySpread:    0.10,
		priceBandLow:         50,
		priceBandHigh:        150,
		rankingCutoff:        0.80,
	}
}

// WithRedis sets the Redis Stack addresses.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithAuth sets database credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithKeyPrefix overrides the key prefix all tenant data lives under.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithOpenAI configures the embedding provider. Model and dimensions
// fall back to text-embedding-3-small / 1536 when zero-valued.
func WithOpenAI(apiKey, baseURL, model string, dimensions int) Option {
	return func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		if model != "" {
			c.embeddingModel = model
		}
		if dimensions > 0 {
			c.embeddingDims = dimensions
		}
	}
}

// WithEmbedder injects a custom embedding provider, taking precedence
// over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithWeights overrides the hybrid blend weights. They must sum to 1;
// invalid weights are replaced by the defaults at wiring time.
func WithWeights(ftsWeight, semanticWeight float64) Option {
	return func(c *clientConfig) {
		c.ftsWeight = ftsWeight
		c.semanticWeight = semanticWeight
	}
}

// WithEngineTimeout bounds each search leg.
func WithEngineTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.engineTimeout = d }
}

// WithSimilarityThresholds overrides the vector similarity floors:
// reference for seed-product mode, intent for free-text mode.
func WithSimilarityThresholds(reference, intent float64) Option {
	return func(c *clientConfig) {
		c.referenceThreshold = reference
		c.intentThreshold = intent
	}
}

// WithCollaborativeTuning overrides collaborative filtering parameters.
func WithCollaborativeTuning(jaccardThreshold float64, maxSimilarSessions int) Option {
	return func(c *clientConfig) {
		c.jaccardThreshold = jaccardThreshold
		c.maxSimilarSessions = maxSimilarSessions
	}
}

// WithRefinementTuning overrides the refinement decision parameters.
func WithRefinementTuning(minResults int, homogeneitySpread, rankingCutoff float64) Option {
	return func(c *clientConfig) {
		c.minResults = minResults
		c.homogeneitySpread = homogeneitySpread
		c.rankingCutoff = rankingCutoff
	}
}
