package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/promptvault/internal/db"
	"github.com/kailas-cloud/promptvault/internal/domain"
	"github.com/kailas-cloud/promptvault/internal/repository/prompt"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	HybridSearch(ctx context.Context, q *db.HybridQuery) (*db.SearchResult, error)
}

// Repo ranks prompts store-side: the fused score is computed by the search
// engine in a single round trip, so prompt hashes never leave the store.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Rank returns the top-k prompts for the query vector, scored by
// alpha-weighted fusion of cosine similarity and normalized metadata.
// Alpha must already be clamped by the caller.
func (r *Repo) Rank(ctx context.Context, vector []float32, alpha float64, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	sr, err := r.store.HybridSearch(ctx, &db.HybridQuery{
		IndexName:    prompt.IndexName(),
		Vector:       vector,
		Alpha:        alpha,
		K:            k,
		VectorField:  prompt.VectorField(),
		VotesField:   prompt.VotesField(),
		QualityField: prompt.QualityField(),
		MetadataNorm: domain.MetadataNormalizer,
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	results := make([]domain.SearchResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, domain.SearchResult{
			ID:    extractID(entry.Key),
			Score: entry.Score,
		})
	}

	// The engine sorts by score only; re-sort so equal scores order by ID.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i
	}
	return results, nil
}

func extractID(key string) string {
	return strings.TrimPrefix(key, domain.KeyPrefix+"prompt:")
}
