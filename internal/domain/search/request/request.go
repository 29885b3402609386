// Package request defines the validated hybrid search query.
package request

import (
	"fmt"
	"time"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Filters scope a search. DomainID is mandatory: every query runs inside
// one tenant, and cross-tenant leakage is a correctness bug.
type Filters struct {
	DomainID  string
	DateFrom  time.Time
	DateTo    time.Time
	Sentiment string
}

// Request is a validated search query.
type Request struct {
	query    string
	filters  Filters
	limit    int
	offset   int
	minScore float64
}

// New validates and normalizes search parameters. An empty query is
// allowed (it yields an empty result set, not an error), but a missing
// tenant scope is rejected.
func New(query string, filters Filters, limit, offset int, minScore float64) (Request, error) {
	if filters.DomainID == "" {
		return Request{}, fmt.Errorf("%w: domain_id is required", domain.ErrMissingTenant)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if minScore < 0 || minScore > 1 {
		return Request{}, fmt.Errorf("%w: min_score must be between 0 and 1", domain.ErrInvalidRequest)
	}

	return Request{
		query:    query,
		filters:  filters,
		limit:    limit,
		offset:   offset,
		minScore: minScore,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Filters returns the tenant/date/sentiment scope.
func (r *Request) Filters() Filters { return r.filters }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }

// MinScore returns the minimum blended score threshold.
func (r *Request) MinScore() float64 { return r.minScore }
