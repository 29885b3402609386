// Package db defines the datastore facade over Redis Stack. Consumers use
// the narrow sub-interfaces; repositories never touch rueidis directly.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	HashStore
	SetStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrByFloat(ctx context.Context, key, field string, delta float64) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// SetStore provides set membership operations (session/product cross-references).
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// TextQuery is a BM25 full-text query against an FT index.
type TextQuery struct {
	IndexName    string
	Query        string   // RediSearch query string, already escaped/filtered
	TopK         int
	Offset       int
	ReturnFields []string
	Highlight    []string // fields to wrap match terms in <mark> tags; empty disables
}

// KNNQuery is a vector nearest-neighbor query against an FT index.
type KNNQuery struct {
	IndexName    string
	Prefilter    string // RediSearch filter expression, "*" semantics when empty
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchEntry is one raw hit from FT.SEARCH.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult is the raw outcome of an FT.SEARCH call.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}
