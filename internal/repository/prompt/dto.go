package prompt

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// Hash field names. These double as FT schema attribute names, so renaming
// one requires dropping and rebuilding the index.
const (
	fieldContent   = "content"
	fieldCategory  = "category"
	fieldVotes     = "votes"
	fieldQuality   = "quality"
	fieldCreatedAt = "created_at"
	fieldEmbedding = "embedding"
)

// safeFields are the attributes listing endpoints may return. Content and the
// raw vector stay out of list responses.
var safeFields = []string{fieldCategory, fieldVotes, fieldQuality, fieldCreatedAt}

// buildHashFields converts a domain Prompt into a flat map[string]string for HSET.
func buildHashFields(p *domain.Prompt) map[string]string {
	return map[string]string{
		fieldContent:   p.Content(),
		fieldCategory:  p.Category(),
		fieldVotes:     strconv.Itoa(p.Votes()),
		fieldQuality:   strconv.FormatFloat(p.Quality(), 'f', -1, 64),
		fieldCreatedAt: strconv.FormatInt(p.CreatedAt().Unix(), 10),
		fieldEmbedding: vectorToBytes(p.Vector()),
	}
}

// parseHashFields converts a flat hash map back into a domain Prompt.
// Unparseable numeric fields degrade to zero values rather than failing reads.
func parseHashFields(id string, m map[string]string) domain.Prompt {
	votes, _ := strconv.Atoi(m[fieldVotes])
	quality, _ := strconv.ParseFloat(m[fieldQuality], 64)

	var createdAt time.Time
	if ts, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil && ts > 0 {
		createdAt = time.Unix(ts, 0).UTC()
	}

	var vector []float32
	if raw, ok := m[fieldEmbedding]; ok {
		vector = bytesToVector(raw)
	}

	return domain.ReconstructPrompt(
		id, m[fieldContent], m[fieldCategory], votes, quality, vector, createdAt,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
