package domain

import (
	"fmt"
	"time"
)

// MaxContentSize is the maximum prompt content size in bytes.
const MaxContentSize = 16384 // 16KB

// Prompt is the stored prompt aggregate. Content is immutable after creation;
// only the vector may be replaced (re-embedding migrations).
type Prompt struct {
	id        string
	content   string
	category  string
	votes     int
	quality   float64
	vector    []float32
	createdAt time.Time
}

// NewPrompt validates and creates a Prompt. The id is assigned by the
// ingestion path, content must be non-empty and within size limits, votes
// must be non-negative.
func NewPrompt(id, content, category string, votes int, quality float64) (Prompt, error) {
	if id == "" {
		return Prompt{}, fmt.Errorf("%w: prompt id is required", ErrInvalidInput)
	}
	if content == "" {
		return Prompt{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len(content) > MaxContentSize {
		return Prompt{}, fmt.Errorf("%w: content too large (max %d bytes)", ErrInvalidInput, MaxContentSize)
	}
	if votes < 0 {
		return Prompt{}, fmt.Errorf("%w: votes must be non-negative", ErrInvalidInput)
	}

	return Prompt{
		id:        id,
		content:   content,
		category:  category,
		votes:     votes,
		quality:   quality,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructPrompt creates a Prompt without validation (storage hydration).
func ReconstructPrompt(
	id, content, category string, votes int, quality float64,
	vector []float32, createdAt time.Time,
) Prompt {
	return Prompt{
		id: id, content: content, category: category,
		votes: votes, quality: quality, vector: vector, createdAt: createdAt,
	}
}

// ID returns the prompt identifier.
func (p *Prompt) ID() string { return p.id }

// Content returns the prompt text. Never exposed by listing endpoints.
func (p *Prompt) Content() string { return p.content }

// Category returns the prompt category.
func (p *Prompt) Category() string { return p.category }

// Votes returns the vote count.
func (p *Prompt) Votes() int { return p.votes }

// Quality returns the quality score.
func (p *Prompt) Quality() float64 { return p.quality }

// Vector returns the embedding vector.
func (p *Prompt) Vector() []float32 { return p.vector }

// CreatedAt returns the creation timestamp.
func (p *Prompt) CreatedAt() time.Time { return p.createdAt }

// WithVector returns a copy with the given vector set. Id and content are unchanged.
func (p *Prompt) WithVector(v []float32) Prompt {
	return Prompt{
		id: p.id, content: p.content, category: p.category,
		votes: p.votes, quality: p.quality, vector: v, createdAt: p.createdAt,
	}
}
