package fts

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
)

// Repository defines the storage contract for full-text search.
type Repository interface {
	FullText(ctx context.Context, req *request.Request) ([]result.Result, int, error)
}
