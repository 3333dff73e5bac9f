package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "pv:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model               string
	Dimensions          int
	DistanceMetric      string
	Algorithm           string
	DocumentInstruction string
	QueryInstruction    string
}

// DefaultVectorConfig returns defaults tuned for text-embedding-3-small at 768 dims.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     768,
		DistanceMetric: "cosine",
		Algorithm:      "hnsw",
	}
}
