package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/promptvault/internal/db"
)

// HybridSearch runs KNN + metadata fusion entirely server-side via FT.AGGREGATE.
// The fused score is computed by an APPLY expression:
//
//	score = alpha * (1 - knn_dist) + (1 - alpha) * ((votes + quality) / norm)
//
// where knn_dist is the cosine distance reported by the KNN match, so
// (1 - knn_dist) is cosine similarity.
//
// The KNN stage over-fetches (see knnWindow): fusion re-orders by metadata
// as well as distance, so a candidate just outside the top-k by distance can
// still win on votes and quality. The final LIMIT trims back to k after the
// fused SORTBY.
func (s *Store) HybridSearch(ctx context.Context, q *db.HybridQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	if q.MetadataNorm <= 0 {
		return nil, fmt.Errorf("metadata norm must be positive")
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @%s $BLOB AS __dist]", knnWindow(q.K), q.VectorField)

	scoreExpr := fmt.Sprintf(
		"%s * (1 - @__dist) + %s * ((@%s + @%s) / %s)",
		formatFloat(q.Alpha),
		formatFloat(1-q.Alpha),
		q.VotesField,
		q.QualityField,
		formatFloat(q.MetadataNorm),
	)

	args := []string{
		q.IndexName, queryStr,
		"LOAD", "3", "@__key", "@" + q.VotesField, "@" + q.QualityField,
		"APPLY", scoreExpr, "AS", "__score",
		"SORTBY", "2", "@__score", "DESC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateResult(raw)
}

// knnWindow returns the KNN candidate count for a final page of k. The
// window stays a bounded approximation of full-corpus fusion: a document
// ranked below it by raw distance cannot surface even with perfect metadata.
func knnWindow(k int) int {
	w := 4 * k
	if w < k+16 {
		w = k + 16
	}
	return w
}

// SearchList performs paginated search via FT.SEARCH.
func (s *Store) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	args := []string{q.IndexName, q.Query}

	if q.SortBy != "" {
		order := "ASC"
		if q.SortDesc {
			order = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, order)
	}

	args = append(args, "LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit))

	if len(q.Fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.Fields)))
		args = append(args, q.Fields...)
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// SearchCount returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Result parsing ---

// parseAggregateResult parses an FT.AGGREGATE RESP2 reply:
// [total, row1, row2, ...] where each row is a flat field/value array.
func parseAggregateResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	entries := make([]db.SearchEntry, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(row)

		entry := db.SearchEntry{
			Key:    fields["__key"],
			Fields: fields,
		}
		if scoreStr, ok := fields["__score"]; ok {
			if sc, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = sc
			}
		}
		delete(fields, "__key")
		delete(fields, "__score")
		delete(fields, "__dist")

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
