package domain

import "errors"

// Sentinel errors for the search core.
//
// Engines catch ErrDatastore and ErrEmbeddingProvider internally and
// degrade to empty results; they must never reach the chat orchestration
// layer as failures. Everything else is programmer error and may propagate.
var (
	// ErrDatastore signals a connection or query failure in the backing store.
	ErrDatastore = errors.New("datastore error")
	// ErrEmbeddingProvider signals an external embedding API failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrMissingTenant signals a query issued without domain scoping.
	ErrMissingTenant = errors.New("missing tenant scope")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
)
