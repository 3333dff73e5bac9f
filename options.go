package promptvault

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder  Embedder
	completer Completer

	vectorDimensions int
	defaultAlpha     float64
	defaultTopK      int
	maxTopK          int
	localRanker      bool

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider.
// Required for ingestion and search; reads work without it.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithCompleter sets the completion provider used by Execute.
func WithCompleter(p Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = p
	})
}

// WithVectorDimensions sets the vector dimension of the prompt index.
// Defaults to 768 (text-embedding-3-small).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithLocalRanker ranks candidates in-process instead of store-side.
// Useful against stores without aggregate support, at the cost of
// transferring every candidate vector per query.
func WithLocalRanker() Option {
	return optionFunc(func(c *clientConfig) {
		c.localRanker = true
	})
}

// WithSearchDefaults overrides the default fusion weight and result counts.
func WithSearchDefaults(alpha float64, topK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		if alpha > 0 {
			c.defaultAlpha = alpha
		}
		if topK > 0 {
			c.defaultTopK = topK
		}
		if maxTopK > 0 {
			c.maxTopK = maxTopK
		}
	})
}

// WithLogger enables structured logging for SDK operations.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	})
}
