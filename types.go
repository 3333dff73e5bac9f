package promptvault

import (
	"time"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// PromptInput is the payload for storing a new prompt.
type PromptInput struct {
	Content  string
	Category string
	Votes    int
	Quality  float64
}

// Prompt is a stored prompt. Content is set only on single-item reads and
// ingestion echoes, never in listings.
type Prompt struct {
	ID        string
	Content   string
	Category  string
	Votes     int
	Quality   float64
	CreatedAt time.Time
}

// Hit is a single hybrid search result.
type Hit struct {
	ID    string
	Score float64
	Rank  int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status  string            // "ok", "degraded", "error"
	Checks  map[string]string // component -> "ok"/"error"
	Prompts int               // stored prompt count, -1 when unknown
}

func fromDomainPrompt(p *domain.Prompt, includeContent bool) Prompt {
	out := Prompt{
		ID:        p.ID(),
		Category:  p.Category(),
		Votes:     p.Votes(),
		Quality:   p.Quality(),
		CreatedAt: p.CreatedAt(),
	}
	if includeContent {
		out.Content = p.Content()
	}
	return out
}
