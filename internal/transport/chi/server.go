// Package chi is the HTTP ops surface: search, recommendations,
// interaction recording, health, and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/logger"
	"github.com/chatterdesk/searchcore/internal/metrics"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
	"github.com/chatterdesk/searchcore/internal/usecase/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/vector"
)

// Server exposes the search core over HTTP.
type Server struct {
	search      Searcher
	recommender Recommender
	similar     VectorSearcher
	recorder    Recorder
	pinger      Pinger
	logger      *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	search Searcher, recommender Recommender, similar VectorSearcher,
	recorder Recorder, pinger Pinger, log *zap.Logger,
) *Server {
	return &Server{
		search:      search,
		recommender: recommender,
		similar:     similar,
		recorder:    recorder,
		pinger:      pinger,
		logger:      log,
	}
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())

	r.Post("/search", s.Search)
	r.Post("/recommendations", s.Recommendations)
	r.Post("/similar-products", s.SimilarProducts)
	r.Post("/interactions", s.RecordInteraction)
	r.Get("/healthz", s.Health)
	r.Get("/metrics", s.Metrics)

	return r
}

// requestLogger stamps each request with an ID and puts a scoped logger
// into the context for the layers below.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := logger.ContextWithLogger(r.Context(), s.logger)
		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.DomainID == "" {
		writeError(w, http.StatusBadRequest, "missing_tenant", "domain_id is required")
		return
	}

	out, err := s.search.Search(r.Context(), req.Query, conversation.Context{
		DomainID:           req.DomainID,
		SessionID:          req.SessionID,
		DetectedIntent:     req.DetectedIntent,
		NarrowedProductIDs: req.NarrowedProductIDs,
		Limit:              req.Limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(out))
}

// Recommendations handles POST /recommendations. The engines chain:
// collaborative, then content-based, then tenant popularity.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.DomainID == "" {
		writeError(w, http.StatusBadRequest, "missing_tenant", "domain_id is required")
		return
	}

	q := recommend.Query{
		SessionID:         req.SessionID,
		DomainID:          req.DomainID,
		ExcludeProductIDs: req.ExcludeProductIDs,
		Limit:             req.Limit,
	}
	out := s.recommender.Collaborative(r.Context(), q)
	if len(out) == 0 {
		out = s.recommender.ContentBased(r.Context(), q)
	}
	if len(out) == 0 {
		out = s.recommender.Popular(r.Context(), q)
	}

	writeJSON(w, http.StatusOK, recommendResponseFrom(out))
}

// SimilarProducts handles POST /similar-products: the vector engine
// directly, from seed products, a text intent, or tenant popularity.
func (s *Server) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.DomainID == "" {
		writeError(w, http.StatusBadRequest, "missing_tenant", "domain_id is required")
		return
	}

	out, err := s.similar.Search(r.Context(), vector.Query{
		DomainID:          req.DomainID,
		ProductIDs:        req.ProductIDs,
		DetectedIntent:    req.Intent,
		ExcludeProductIDs: req.ExcludeProductIDs,
		Limit:             req.Limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponseFrom(out))
}

// RecordInteraction handles POST /interactions.
func (s *Server) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.SessionID == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "session_id and product_id are required")
		return
	}

	err := s.recorder.Record(r.Context(), domain.InteractionEvent{
		SessionID: req.SessionID,
		DomainID:  req.DomainID,
		ProductID: req.ProductID,
		Clicked:   req.Clicked,
		Purchased: req.Purchased,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingTenant):
		writeError(w, http.StatusBadRequest, "missing_tenant", domain.ErrMissingTenant.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "validation_failed", domain.ErrInvalidRequest.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrDatastore):
		logger.FromContext(r.Context()).Error("datastore failure", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "datastore_unavailable", domain.ErrDatastore.Error())
	default:
		logger.FromContext(r.Context()).Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
