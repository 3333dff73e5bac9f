package db

// HybridQuery is the input for store-side hybrid ranking: a KNN vector match
// whose cosine similarity is fused with a metadata score in a single
// server-side expression.
type HybridQuery struct {
	IndexName    string
	Vector       []float32
	Alpha        float64 // semantic weight, assumed already clamped to [0,1]
	K            int
	VectorField  string  // schema name of the vector field
	VotesField   string  // schema name of the votes numeric field
	QualityField string  // schema name of the quality numeric field
	MetadataNorm float64 // divisor calibrating votes+quality to ~[0,1]
}

// ListQuery is the input for paginated listing via FT.SEARCH.
type ListQuery struct {
	IndexName string
	Query     string // FT query string, "*" for all
	Offset    int
	Limit     int
	Fields    []string // RETURN fields; empty means full documents
	SortBy    string   // schema name of a sortable field; empty means no SORTBY
	SortDesc  bool
}

// SearchResult is the output of a search or aggregate operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
