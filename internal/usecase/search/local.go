package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// LocalRanker scores prompts in-process: it loads every stored prompt and
// runs the same fusion formula the store-side ranker applies. Intended for
// small corpora and for backends without aggregate support.
type LocalRanker struct {
	prompts PromptReader
}

// NewLocalRanker creates an in-process ranker.
func NewLocalRanker(prompts PromptReader) *LocalRanker {
	return &LocalRanker{prompts: prompts}
}

// Rank implements Ranker.
func (r *LocalRanker) Rank(ctx context.Context, vector []float32, alpha float64, k int) ([]domain.SearchResult, error) {
	prompts, err := r.prompts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	candidates := make([]Candidate, 0, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		candidates = append(candidates, Candidate{
			ID:      p.ID(),
			Vector:  p.Vector(),
			Votes:   p.Votes(),
			Quality: p.Quality(),
		})
	}

	return RankHybrid(vector, candidates, alpha, k), nil
}
