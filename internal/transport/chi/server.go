package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
	searchuc "github.com/kailas-cloud/promptvault/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API over the prompt and search services.
type Server struct {
	prompts       *promptuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	prompts *promptuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		prompts: prompts,
		search:  search,
		health:  health,
		logger:  logger,
	}
	// Specific sentinels come before ErrSearchFailed so the causal error
	// inside a wrapped search failure picks the status code.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, codeTimeout),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusTooManyRequests, codeQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(domain.ErrSearchFailed, http.StatusInternalServerError, codeSearchFailed),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/prompts", s.IngestPrompt)
		r.Get("/prompts", s.ListPrompts)
		r.Get("/prompts/{id}", s.GetPrompt)
		r.Post("/prompts/{id}/execute", s.ExecutePrompt)
		r.Get("/search", s.SearchPrompts)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// IngestPrompt handles POST /api/v1/prompts.
func (s *Server) IngestPrompt(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.prompts.Ingest(r.Context(), &promptuc.IngestInput{
		Content:  req.Content,
		Category: req.Category,
		Votes:    req.Votes,
		Quality:  req.Quality,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/prompts/"+p.ID())
	writeJSON(w, http.StatusCreated, promptToResponse(&p, true))
}

// GetPrompt handles GET /api/v1/prompts/{id}.
func (s *Server) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := s.prompts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, promptToResponse(&p, true))
}

// ListPrompts handles GET /api/v1/prompts. Content is never included.
func (s *Server) ListPrompts(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 20)

	prompts, total, err := s.prompts.List(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]promptResponse, len(prompts))
	for i := range prompts {
		items[i] = promptToResponse(&prompts[i], false)
	}

	writeJSON(w, http.StatusOK, promptListResponse{
		Items:  items,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// ExecutePrompt handles POST /api/v1/prompts/{id}/execute.
func (s *Server) ExecutePrompt(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	out, err := s.prompts.Execute(r.Context(), chi.URLParam(r, "id"), req.Input)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{Output: out})
}

// SearchPrompts handles GET /api/v1/search?q=&alpha=&k=.
func (s *Server) SearchPrompts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var alpha *float64
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "alpha must be a number")
			return
		}
		alpha = &parsed
	}

	k := queryInt(r, "k", 0)

	results, err := s.search.Search(r.Context(), query, alpha, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	effectiveAlpha := domain.DefaultAlpha
	if alpha != nil {
		effectiveAlpha = searchuc.ClampAlpha(*alpha)
	}

	writeJSON(w, http.StatusOK, searchResultsToResponse(results, effectiveAlpha, len(results)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	resp := healthResponse{Status: report.Status, Checks: report.Checks}
	if report.Prompts >= 0 {
		n := report.Prompts
		resp.Prompts = &n
	}

	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrVectorDimMismatch,
		domain.ErrNotFound,
		domain.ErrTimeout,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingUnavailable,
		domain.ErrStoreUnavailable,
		domain.ErrSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
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
