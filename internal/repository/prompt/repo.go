package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/promptvault/internal/db"
	"github.com/kailas-cloud/promptvault/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "prompt:"
	indexName = domain.KeyPrefix + "prompt:idx"
)

// store is the consumer interface for prompts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the prompt persistence ports of the usecase layer.
type Repo struct {
	store store
}

// New creates a prompt repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores a new prompt as a hash under its key. The caller assigns the
// ID, so an existing key is a caller bug, not a conflict to resolve here.
func (r *Repo) Insert(ctx context.Context, p *domain.Prompt) error {
	key := promptKey(p.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(p)); err != nil {
		return fmt.Errorf("hset %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns a prompt by ID, including content and vector.
func (r *Repo) Get(ctx context.Context, id string) (domain.Prompt, error) {
	key := promptKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("hgetall %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	if len(m) == 0 {
		return domain.Prompt{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// List returns prompts newest-first with offset pagination. Only safe fields
// are fetched; content and vector are never loaded for listings.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error) {
	if limit <= 0 {
		limit = 20
	}

	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: indexName,
		Query:     "*",
		Offset:    offset,
		Limit:     limit,
		Fields:    safeFields,
		SortBy:    fieldCreatedAt,
		SortDesc:  true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search list: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if result == nil || result.Total == 0 {
		return nil, 0, nil
	}

	prompts := make([]domain.Prompt, 0, len(result.Entries))
	for _, entry := range result.Entries {
		prompts = append(prompts, parseHashFields(extractID(entry.Key), entry.Fields))
	}
	return prompts, result.Total, nil
}

// ListAll returns every stored prompt with all fields loaded. Used by the
// local ranker and the re-embedding queue; not exposed over HTTP.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Prompt, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan prompts: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w: %w", domain.ErrStoreUnavailable, err)
	}

	prompts := make([]domain.Prompt, 0, len(keys))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		prompts = append(prompts, parseHashFields(extractID(keys[i]), m))
	}
	return prompts, nil
}

// UpdateVector replaces only the stored embedding of an existing prompt.
func (r *Repo) UpdateVector(ctx context.Context, id string, vec []float32) error {
	key := promptKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	fields := map[string]string{fieldEmbedding: vectorToBytes(vec)}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Count returns the number of stored prompts.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName, "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// IndexDefinition describes the FT index over prompt hashes. Created once at
// startup; existing indexes are left untouched.
func IndexDefinition(vectorDim int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName,
		Prefixes: []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: fieldCategory, Type: db.IndexFieldTag},
			{Name: fieldVotes, Type: db.IndexFieldNumeric, Sortable: true},
			{Name: fieldQuality, Type: db.IndexFieldNumeric, Sortable: true},
			{Name: fieldCreatedAt, Type: db.IndexFieldNumeric, Sortable: true},
			{
				Name:           fieldEmbedding,
				Type:           db.IndexFieldVector,
				VectorDim:      vectorDim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
}

// IndexName returns the FT index name for prompts.
func IndexName() string { return indexName }

// VectorField returns the schema name of the embedding attribute.
func VectorField() string { return fieldEmbedding }

// VotesField returns the schema name of the votes attribute.
func VotesField() string { return fieldVotes }

// QualityField returns the schema name of the quality attribute.
func QualityField() string { return fieldQuality }

func promptKey(id string) string {
	return keyPrefix + id
}

func extractID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}
