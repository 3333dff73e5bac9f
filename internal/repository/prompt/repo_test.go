package prompt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/promptvault/internal/db"
	"github.com/kailas-cloud/promptvault/internal/domain"
)

func TestInsert(t *testing.T) {
	repo, ms := newTestRepo(t)

	p := domain.ReconstructPrompt(
		"p1", "write a haiku", "creative", 42, 0.9,
		[]float32{0.1, 0.2}, time.Unix(1700000000, 0).UTC(),
	)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	if err := repo.Insert(context.Background(), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "pv:prompt:p1" {
		t.Errorf("unexpected key: %q", gotKey)
	}
	if gotFields[fieldContent] != "write a haiku" {
		t.Errorf("unexpected content field: %q", gotFields[fieldContent])
	}
	if gotFields[fieldVotes] != "42" {
		t.Errorf("unexpected votes field: %q", gotFields[fieldVotes])
	}
	if gotFields[fieldCreatedAt] != "1700000000" {
		t.Errorf("unexpected created_at field: %q", gotFields[fieldCreatedAt])
	}
	if len(gotFields[fieldEmbedding]) != 8 {
		t.Errorf("expected 8-byte vector blob, got %d bytes", len(gotFields[fieldEmbedding]))
	}
}

func TestInsert_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection refused")
	}

	p := domain.ReconstructPrompt("p1", "c", "", 0, 0, nil, time.Now())
	if err := repo.Insert(context.Background(), &p); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGet(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "pv:prompt:p1" {
			t.Errorf("unexpected key: %q", key)
		}
		return map[string]string{
			fieldContent:   "write a haiku",
			fieldCategory:  "creative",
			fieldVotes:     "42",
			fieldQuality:   "0.9",
			fieldCreatedAt: "1700000000",
			fieldEmbedding: vectorToBytes([]float32{0.1, 0.2}),
		}, nil
	}

	p, err := repo.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "p1" || p.Content() != "write a haiku" || p.Votes() != 42 {
		t.Errorf("unexpected prompt: %+v", p)
	}
	if p.Quality() != 0.9 {
		t.Errorf("unexpected quality: %v", p.Quality())
	}
	if len(p.Vector()) != 2 {
		t.Errorf("unexpected vector: %v", p.Vector())
	}
	if p.CreatedAt().Unix() != 1700000000 {
		t.Errorf("unexpected created_at: %v", p.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	// HGETALL on a missing key returns an empty map, not an error.
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchListFn = func(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
		if q.IndexName != "pv:prompt:idx" {
			t.Errorf("unexpected index: %q", q.IndexName)
		}
		if q.SortBy != fieldCreatedAt || !q.SortDesc {
			t.Errorf("expected newest-first sort, got %q desc=%v", q.SortBy, q.SortDesc)
		}
		for _, f := range q.Fields {
			if f == fieldContent || f == fieldEmbedding {
				t.Errorf("listing must not fetch %q", f)
			}
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "pv:prompt:p2", Fields: map[string]string{fieldVotes: "7", fieldCreatedAt: "200"}},
				{Key: "pv:prompt:p1", Fields: map[string]string{fieldVotes: "3", fieldCreatedAt: "100"}},
			},
		}, nil
	}

	prompts, total, err := repo.List(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got total=%d len=%d", total, len(prompts))
	}
	if prompts[0].ID() != "p2" || prompts[1].ID() != "p1" {
		t.Errorf("unexpected order: %s, %s", prompts[0].ID(), prompts[1].ID())
	}
	if prompts[0].Content() != "" {
		t.Error("listed prompts must not carry content")
	}
}

func TestList_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchListFn = func(_ context.Context, _ *db.ListQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	prompts, total, err := repo.List(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || prompts != nil {
		t.Fatalf("expected empty result, got total=%d prompts=%v", total, prompts)
	}
}

func TestListAll(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "pv:prompt:*" {
			t.Errorf("unexpected scan pattern: %q", pattern)
		}
		return []string{"pv:prompt:p1", "pv:prompt:p2", "pv:prompt:gone"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		if len(keys) != 3 {
			t.Errorf("expected 3 keys, got %d", len(keys))
		}
		return []map[string]string{
			{fieldContent: "a", fieldVotes: "1"},
			{fieldContent: "b", fieldVotes: "2"},
			{}, // deleted between SCAN and HGETALL
		}, nil
	}

	prompts, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	if prompts[0].ID() != "p1" || prompts[0].Content() != "a" {
		t.Errorf("unexpected first prompt: %+v", prompts[0])
	}
}

func TestUpdateVector(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, _ string, fields map[string]string) error {
		gotFields = fields
		return nil
	}

	if err := repo.UpdateVector(context.Background(), "p1", []float32{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotFields) != 1 {
		t.Fatalf("expected only the embedding field to be written, got %v", gotFields)
	}
	if len(gotFields[fieldEmbedding]) != 12 {
		t.Errorf("expected 12-byte vector blob, got %d bytes", len(gotFields[fieldEmbedding]))
	}
}

func TestUpdateVector_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	err := repo.UpdateVector(context.Background(), "missing", []float32{1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchCountFn = func(_ context.Context, index, query string) (int, error) {
		if index != "pv:prompt:idx" || query != "*" {
			t.Errorf("unexpected count query: %s %s", index, query)
		}
		return 7, nil
	}

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75}
	got := bytesToVector(vectorToBytes(vec))
	if len(got) != len(vec) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: %v != %v", i, got[i], vec[i])
		}
	}
	if bytesToVector("abc") != nil {
		t.Error("truncated blob must decode to nil")
	}
}

func TestParseHashFields_Degraded(t *testing.T) {
	p := parseHashFields("p1", map[string]string{
		fieldContent: "c",
		fieldVotes:   "not-a-number",
		fieldQuality: "also-bad",
	})
	if p.Votes() != 0 || p.Quality() != 0 {
		t.Errorf("unparseable numerics must degrade to zero: votes=%d quality=%v", p.Votes(), p.Quality())
	}
	if p.Content() != "c" {
		t.Errorf("unexpected content: %q", p.Content())
	}
}
