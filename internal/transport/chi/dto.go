package chi

import (
	"time"

	"github.com/kailas-cloud/promptvault/internal/domain"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
)

// errorCode identifies an error class in API responses.
type errorCode string

const (
	codeBadRequest           errorCode = "bad_request"
	codeInvalidInput         errorCode = "invalid_input"
	codeNotFound             errorCode = "not_found"
	codeVectorDimMismatch    errorCode = "vector_dim_mismatch"
	codeEmbeddingUnavailable errorCode = "embedding_unavailable"
	codeQuotaExceeded        errorCode = "embedding_quota_exceeded"
	codeStoreUnavailable     errorCode = "store_unavailable"
	codeTimeout              errorCode = "timeout"
	codeSearchFailed         errorCode = "search_failed"
	codeUnauthorized         errorCode = "unauthorized"
	codeInternalError        errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type ingestRequest struct {
	Content  string  `json:"content"`
	Category string  `json:"category,omitempty"`
	Votes    int     `json:"votes,omitempty"`
	Quality  float64 `json:"quality,omitempty"`
}

// promptResponse carries a stored prompt. Content is set only on single-item
// reads and ingestion echoes, never in listings.
type promptResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content,omitempty"`
	Category  string    `json:"category,omitempty"`
	Votes     int       `json:"votes"`
	Quality   float64   `json:"quality"`
	CreatedAt time.Time `json:"created_at"`
}

type promptListResponse struct {
	Items  []promptResponse `json:"items"`
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

type searchResultItem struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Alpha float64            `json:"alpha"`
	K     int                `json:"k"`
}

type executeRequest struct {
	Input string `json:"input,omitempty"`
}

type executeResponse struct {
	Output string `json:"output"`
}

type healthResponse struct {
	Status  healthuc.Status                 `json:"status"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
	Prompts *int                            `json:"prompts,omitempty"`
}

func promptToResponse(p *domain.Prompt, includeContent bool) promptResponse {
	resp := promptResponse{
		ID:        p.ID(),
		Category:  p.Category(),
		Votes:     p.Votes(),
		Quality:   p.Quality(),
		CreatedAt: p.CreatedAt(),
	}
	if includeContent {
		resp.Content = p.Content()
	}
	return resp
}

func searchResultsToResponse(results []domain.SearchResult, alpha float64, k int) searchResponse {
	items := make([]searchResultItem, len(results))
	for i, r := range results {
		items[i] = searchResultItem{ID: r.ID, Score: r.Score, Rank: r.Rank}
	}
	return searchResponse{Items: items, Alpha: alpha, K: k}
}
