package embcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// entry is the persisted cache row. The embedding is kept as raw JSON on
// decode because stored vectors may arrive as a native array or, from legacy
// writers, as an encoded string like "[0.1,0.2]".
type entry struct {
	SearchText string          `json:"search_text"`
	Embedding  json.RawMessage `json:"embedding"`
	CreatedAt  int64           `json:"created_at"`
}

func encodeEntry(searchText string, vec []float32) ([]byte, error) {
	emb, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	data, err := json.Marshal(entry{
		SearchText: searchText,
		Embedding:  emb,
		CreatedAt:  time.Now().Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

// decodeEntry parses a stored cache row defensively. Any parse failure or
// dimension mismatch is ErrMalformedCacheEntry, which callers treat as a
// cache miss rather than an error.
func decodeEntry(data []byte, dims int) ([]float32, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedCacheEntry, err)
	}
	return decodeVector(e.Embedding, dims)
}

func decodeVector(raw json.RawMessage, dims int) ([]float32, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty embedding field", domain.ErrMalformedCacheEntry)
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		// String-encoded vector: the field holds "[1,2,3]" instead of [1,2,3].
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMalformedCacheEntry, err)
		}
		if err2 := json.Unmarshal([]byte(s), &vec); err2 != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMalformedCacheEntry, err2)
		}
	}

	if dims > 0 && len(vec) != dims {
		return nil, fmt.Errorf("%w: vector has %d dims, want %d",
			domain.ErrMalformedCacheEntry, len(vec), dims)
	}

	return vec, nil
}
