package chi

import (
	"context"

	"github.com/chatterdesk/searchcore/internal/domain"
	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
	"github.com/chatterdesk/searchcore/internal/usecase/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/vector"
)

// Searcher runs one conversational search turn.
type Searcher interface {
	Search(ctx context.Context, query string, conv conversation.Context) (conversation.Outcome, error)
}

// Recommender runs the recommendation engines.
type Recommender interface {
	Collaborative(ctx context.Context, q recommend.Query) []domrec.Result
	ContentBased(ctx context.Context, q recommend.Query) []domrec.Result
	Popular(ctx context.Context, q recommend.Query) []domrec.Result
}

// VectorSearcher runs the product similarity engine directly.
type VectorSearcher interface {
	Search(ctx context.Context, q vector.Query) ([]domrec.Result, error)
}

// Recorder persists interaction events.
type Recorder interface {
	Record(ctx context.Context, ev domain.InteractionEvent) error
}

// Pinger reports datastore connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
