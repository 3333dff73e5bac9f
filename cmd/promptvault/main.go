package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/config"
	"github.com/kailas-cloud/promptvault/internal/db"
	dbRedis "github.com/kailas-cloud/promptvault/internal/db/redis"
	"github.com/kailas-cloud/promptvault/internal/domain"
	logpkg "github.com/kailas-cloud/promptvault/internal/logger"
	"github.com/kailas-cloud/promptvault/internal/metrics"
	"github.com/kailas-cloud/promptvault/internal/repository/embcache"
	promptrepo "github.com/kailas-cloud/promptvault/internal/repository/prompt"
	searchrepo "github.com/kailas-cloud/promptvault/internal/repository/search"
	chiTransport "github.com/kailas-cloud/promptvault/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/promptvault/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/promptvault/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
	reembeduc "github.com/kailas-cloud/promptvault/internal/usecase/reembed"
	searchuc "github.com/kailas-cloud/promptvault/internal/usecase/search"
	"github.com/kailas-cloud/promptvault/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting promptvault API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("ranker", cfg.Search.Ranker),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}
	logger.Info("Connected to store")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	// Vectorizer selection: first configured entry wins.
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	provCfg := cfg.Embedding.Providers[provName]

	vectorDim := vecCfg.Dimensions
	if vectorDim == 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}

	if err := ensureIndex(ctx, store, vectorDim); err != nil {
		logger.Fatal("Failed to create prompt index", zap.Error(err))
	}

	// One budget tracker per provider, shared by the query and document chains.
	var budget embeddinguc.BudgetChecker
	if provCfg.Budget.DailyTokenLimit > 0 || provCfg.Budget.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetAction(provCfg.Budget.Action)
		if action == "" {
			action = embeddinguc.BudgetActionWarn
		}
		budget = embeddinguc.NewBudgetTracker(
			provName,
			provCfg.Budget.DailyTokenLimit,
			provCfg.Budget.MonthlyTokenLimit,
			action, logger,
		).WithStore(ctx, store)
	}

	queryEmbedder := buildEmbedder(
		provName, provCfg, vecCfg, vecCfg.QueryInstruction,
		embcache.PolicyQuery, vectorDim, budget, store, logger,
	)
	docEmbedder := buildEmbedder(
		provName, provCfg, vecCfg, vecCfg.DocumentInstruction,
		embcache.PolicyDocument, vectorDim, budget, store, logger,
	)
	logger.Info("Embedders created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vectorDim),
	)

	var completer promptuc.Completer
	if vecCfg.CompletionModel != "" {
		completer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:  provCfg.APIKey,
			BaseURL: provCfg.BaseURL,
			Model:   vecCfg.CompletionModel,
			Logger:  logger,
		})
	}

	promptRepo := promptrepo.New(store)

	var ranker searchuc.Ranker
	if cfg.Search.Ranker == "local" {
		ranker = searchuc.NewLocalRanker(promptRepo)
	} else {
		ranker = searchrepo.New(store)
	}

	promptSvc := promptuc.New(promptRepo, docEmbedder, completer, vectorDim, logger)
	searchSvc := searchuc.New(&searchuc.Options{
		Ranker:       ranker,
		RankerName:   cfg.Search.Ranker,
		Embedder:     queryEmbedder,
		DefaultAlpha: cfg.Search.DefaultAlpha,
		DefaultTopK:  cfg.Search.DefaultTopK,
		MaxTopK:      cfg.Search.MaxTopK,
		EmbedTimeout: time.Duration(cfg.Search.EmbedTimeoutSec) * time.Second,
		StoreTimeout: time.Duration(cfg.Search.StoreTimeoutSec) * time.Second,
		Logger:       logger,
	})
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(docEmbedder), promptRepo)

	// One-shot migration mode: re-embed the corpus and exit.
	if len(os.Args) > 1 && os.Args[1] == "reembed" {
		runReembed(ctx, cfg, promptRepo, docEmbedder, logger)
		return
	}

	server := chiTransport.NewServer(promptSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// ensureIndex creates the prompt FT index if it does not exist yet.
func ensureIndex(ctx context.Context, store db.Store, vectorDim int) error {
	err := store.CreateIndex(ctx, promptrepo.IndexDefinition(vectorDim))
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

func runReembed(
	ctx context.Context,
	cfg config.Config,
	repo *promptrepo.Repo,
	embedder domain.Embedder,
	logger *zap.Logger,
) {
	queue := reembeduc.New(
		repo, embedder,
		cfg.Reembed.Workers,
		time.Duration(cfg.Reembed.IntervalMS)*time.Millisecond,
		logger,
	)

	stats, err := queue.Run(ctx)
	if err != nil {
		logger.Fatal("Re-embedding failed", zap.Error(err))
	}
	logger.Info("Re-embedding done",
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed),
	)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain:
// OpenAI -> Instrumented (budget) -> Instruction -> Cached.
// The cache sits outermost so it normalizes and keys the raw user text; the
// instruction prefix is applied after the cache decides hit or miss, and the
// budget only sees real provider calls, never cache hits. Query and document
// chains never share entries because the document chain bypasses the cache
// entirely.
func buildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	instruction string,
	policy embcache.Policy,
	dims int,
	budget embeddinguc.BudgetChecker,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(
		base, provName, vecCfg.Model, budget, logger,
	)
	if instruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embcache.New(embedder, store, policy, dims, metrics.EmbeddingCacheTotal, logger)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
