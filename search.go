package promptvault

import (
	"context"
	"fmt"
)

// SearchBuilder is a fluent builder for hybrid search queries.
type SearchBuilder struct {
	client *Client

	query string
	alpha *float64
	topK  int
}

// Query sets the search text.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Alpha sets the fusion weight: 1 is pure semantic similarity, 0 pure
// metadata. Out-of-range values are clamped. Unset uses the client default.
func (b *SearchBuilder) Alpha(a float64) *SearchBuilder {
	b.alpha = &a
	return b
}

// TopK sets the maximum number of results. Unset uses the client default.
func (b *SearchBuilder) TopK(k int) *SearchBuilder {
	b.topK = k
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) ([]Hit, error) {
	results, err := b.client.searchSvc.Search(ctx, b.query, b.alpha, b.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{ID: r.ID, Score: r.Score, Rank: r.Rank}
	}
	return hits, nil
}
