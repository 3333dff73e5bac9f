package embcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/promptvault/internal/db"
	"github.com/kailas-cloud/promptvault/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "emb_cache:"

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Policy selects how the cache treats embedded text.
type Policy int

const (
	// PolicyQuery reads and writes the cache. Query texts repeat, so hits pay off.
	PolicyQuery Policy = iota
	// PolicyDocument bypasses the cache entirely. Document content must never
	// land in the query cache's search_text field.
	PolicyDocument
)

// CachedEmbedder is a content-addressed get-or-compute wrapper around an
// embedding provider. Text is normalized before hashing, so inputs differing
// only in case or surrounding whitespace share one entry. A malformed or
// wrong-dimension cached vector is treated as a miss and recomputed.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	policy     Policy
	dims       int
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	group      singleflight.Group
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"malformed"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	policy Policy,
	dims int,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		policy:     policy,
		dims:       dims,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed resolves text to an embedding: cache hit, or provider call plus a
// best-effort upsert. The upsert is idempotent, so concurrent identical
// misses across processes are a tolerated inefficiency; within this process
// singleflight collapses them to one provider call per key.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	normalized, err := domain.Normalize(text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	if c.policy == PolicyDocument || c.store == nil {
		result, err := c.inner.Embed(ctx, normalized)
		if err != nil {
			return domain.EmbeddingResult{}, fmt.Errorf("embed document: %w", err)
		}
		return result, nil
	}

	key := cacheKeyPrefix + domain.ContentAddress(normalized)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec, Cached: true}, nil
	}

	c.incCache("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		result, err := c.inner.Embed(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("embed text: %w", err)
		}
		// Cache write is best-effort: a failed upsert must not fail the request.
		c.putToCache(ctx, key, normalized, result.Embedding)
		return result, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	return v.(domain.EmbeddingResult), nil
}

// HealthCheck delegates to the inner embedder when it supports health probes.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := decodeEntry(data, c.dims)
	if err != nil {
		c.incCache("malformed")
		c.logger.Warn("Malformed cached embedding, recomputing",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key, normalized string, vec []float32) {
	data, err := encodeEntry(normalized, vec)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}
