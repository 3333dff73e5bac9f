package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewPrompt(t *testing.T) {
	p, err := NewPrompt("id-1", "You are a helpful assistant", "general", 3, 7.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "id-1" || p.Content() != "You are a helpful assistant" {
		t.Errorf("unexpected prompt: %+v", p)
	}
	if p.Votes() != 3 || p.Quality() != 7.5 {
		t.Errorf("unexpected metadata: votes=%d quality=%f", p.Votes(), p.Quality())
	}
	if p.CreatedAt().IsZero() {
		t.Error("expected createdAt to be set")
	}
}

func TestNewPrompt_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		votes   int
	}{
		{"empty id", "", "content", 0},
		{"empty content", "id", "", 0},
		{"negative votes", "id", "content", -1},
		{"oversized content", "id", strings.Repeat("x", MaxContentSize+1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPrompt(tt.id, tt.content, "", tt.votes, 0); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPrompt_WithVector(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := ReconstructPrompt("id-1", "content", "cat", 1, 2, []float32{0.1}, created)

	v2 := p.WithVector([]float32{0.5, 0.6})
	if v2.ID() != p.ID() || v2.Content() != p.Content() {
		t.Error("WithVector must not change id or content")
	}
	if !v2.CreatedAt().Equal(created) {
		t.Error("WithVector must not change createdAt")
	}
	if len(v2.Vector()) != 2 {
		t.Errorf("expected replaced vector, got %v", v2.Vector())
	}
	if len(p.Vector()) != 1 {
		t.Error("original prompt mutated")
	}
}

func TestInstructionEmbedder_PrefixesText(t *testing.T) {
	var seen string
	inner := embedderFunc(func(text string) (EmbeddingResult, error) {
		seen = text
		return EmbeddingResult{Embedding: []float32{1}}, nil
	})

	e := NewInstructionEmbedder(inner, "query: ")
	if _, err := e.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "query: hello" {
		t.Errorf("expected prefixed text, got %q", seen)
	}
}

type embedderFunc func(text string) (EmbeddingResult, error)

func (f embedderFunc) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	return f(text)
}
