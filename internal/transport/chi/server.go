package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	domsearch "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/metrics"
	healthuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/health"
	searchuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/search"
	sessionuc "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/usecase/session"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest       = "bad_request"
	codeSessionNotFound  = "session_not_found"
	codeIndexUnavailable = "search_unavailable"
	codeEmbeddingError   = "embedding_provider_error"
	codeSchemaError      = "schema_error"
	codeInternalError    = "internal_error"
)

// ErrorResponse is the error envelope for all non-2xx responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SchemaInvalidator clears a catalog's cached schema so the next search
// reloads it from disk.
type SchemaInvalidator interface {
	Invalidate(catalog string)
}

// Server hosts the retail search HTTP API.
type Server struct {
	search        *searchuc.Service
	sessions      *sessionuc.Manager
	health        *healthuc.Service
	schemas       SchemaInvalidator
	catalog       string
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	sessions *sessionuc.Manager,
	health *healthuc.Service,
	schemas SchemaInvalidator,
	catalog string,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		sessions: sessions,
		health:   health,
		schemas:  schemas,
		catalog:  catalog,
		apiKeys:  apiKeys,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrSchemaNotFound, http.StatusInternalServerError, codeSchemaError),
		sentinelHandler(domain.ErrSchemaInvalid, http.StatusInternalServerError, codeSchemaError),
	}
	return s
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(s.apiKeys))

	r.Get("/health", s.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/search", s.PostSearch)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Get("/{id}/history", s.GetSessionHistory)
		r.Delete("/{id}", s.DeleteSession)
	})

	r.Post("/schema/refresh", s.RefreshSchema)

	return r
}

// SearchRequest is the POST /search request body.
type SearchRequest struct {
	Query     string `json:"query"`
	TopK      int    `json:"top_k,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// SearchResponse is the POST /search response body.
type SearchResponse struct {
	Products  []domsearch.Product `json:"products"`
	SessionID string              `json:"session_id,omitempty"`
}

// PostSearch handles POST /search.
func (s *Server) PostSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	domReq, err := domsearch.NewRequest(req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	products, err := s.search.Search(r.Context(), &domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if req.SessionID != "" {
		products = s.sessions.Record(req.SessionID, req.Query, products)
	}
	if products == nil {
		products = []domsearch.Product{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Products:  products,
		SessionID: req.SessionID,
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.sessions.List()})
}

// GetSessionHistory handles GET /sessions/{id}/history.
func (s *Server) GetSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	turns, err := s.sessions.History(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if turns == nil {
		turns = []sessionuc.Turn{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"history":    turns,
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sessions.Reset(id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshSchema handles POST /schema/refresh. It clears the cached attribute
// schema so the next search reloads it, enabling schema updates without a
// restart.
func (s *Server) RefreshSchema(w http.ResponseWriter, r *http.Request) {
	s.schemas.Invalidate(s.catalog)
	s.logger.Info("schema cache invalidated", zap.String("catalog", s.catalog))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "catalog": s.catalog})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrIndexUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrSchemaNotFound,
		domain.ErrSchemaInvalid,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
