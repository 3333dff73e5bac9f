package domain

// SearchResult is a single ranked search hit. Produced transiently per query,
// never persisted.
type SearchResult struct {
	ID    string
	Score float64
	Rank  int // position in the final ordered list, 0 = best
}

// Weights is the caller-supplied balance between semantic similarity and
// metadata signal. Alpha outside [0,1] is clamped by the ranker, not rejected.
type Weights struct {
	Alpha float64
}

// DefaultAlpha is the semantic/metadata balance used when the caller supplies none.
const DefaultAlpha = 0.5

// MetadataNormalizer calibrates the raw votes+quality sum into roughly [0,1]
// so it fuses with cosine similarity on comparable scale. Changing it reorders
// existing deployments' results; treat as frozen.
const MetadataNormalizer = 200.0
