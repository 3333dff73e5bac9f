package search

import (
	"math"
	"sort"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// Candidate is one scoring input for in-process hybrid ranking.
type Candidate struct {
	ID      string
	Vector  []float32
	Votes   int
	Quality float64
}

// RankHybrid fuses semantic similarity with metadata signal:
//
//	score = alpha * cosine(query, vector) + (1 - alpha) * (votes + quality) / MetadataNormalizer
//
// Results are ordered by score descending; equal scores order by ID ascending
// so repeated queries return a stable list. Alpha outside [0,1] is clamped.
// Pure function: no I/O, no randomness.
func RankHybrid(query []float32, candidates []Candidate, alpha float64, k int) []domain.SearchResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	alpha = ClampAlpha(alpha)

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		score := alpha*cosineSimilarity(query, c.Vector) +
			(1-alpha)*metadataScore(c.Votes, c.Quality)
		results = append(results, domain.SearchResult{ID: c.ID, Score: score})
	}

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
	return results
}

// ClampAlpha bounds the semantic weight to [0,1]. Out-of-range values are
// clamped, not rejected, so stored defaults survive config typos.
func ClampAlpha(alpha float64) float64 {
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or a zero-magnitude vector score 0, never NaN.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func metadataScore(votes int, quality float64) float64 {
	return (float64(votes) + quality) / domain.MetadataNormalizer
}
