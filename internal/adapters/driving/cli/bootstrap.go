package cli

import (
	"context"
	"fmt"
	"time"

	cachememory "github.com/custodia-labs/ragpipe/internal/adapters/driven/cache/memory"
	cacheredis "github.com/custodia-labs/ragpipe/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/embedding/gateway"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/embedding/stub"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/extractor"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/ragpipe/internal/chunker"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/services"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// probeTimeout bounds the startup reachability checks for optional
// backends. An unreachable backend degrades the pipeline, it never blocks
// startup.
const probeTimeout = 2 * time.Second

var (
	appConfig *file.AppConfig
	cleanups  []func() error
)

// ensureServices wires the command tree to live backends. A test that has
// already installed fakes short-circuits here.
func ensureServices(ctx context.Context) error {
	if searchService != nil || ingestService != nil {
		return nil
	}

	cfg, err := file.Load(flagConfig)
	if err != nil {
		return err
	}
	appConfig = cfg

	if flagUser == "" {
		if flagUser, err = localIdentity(cfg); err != nil {
			return err
		}
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	cleanups = append(cleanups, store.Close)

	embedder := buildEmbedder(cfg)
	index := probeIndex(ctx, cfg)
	cache := buildCache(ctx, cfg)

	documentStore = store.DocumentStore()

	ingestService = services.NewIngestionService(
		store.DocumentStore(), store.ConfigStore(),
		extractor.New(), embedder, index, chunker.New(),
	)
	searchService = services.NewSearchService(
		store.DocumentStore(), store.ConfigStore(), store.AnalyticsStore(),
		index, embedder, cache,
	)
	analyticsService = services.NewAnalyticsService(store.DocumentStore(), store.AnalyticsStore())
	healthService = services.NewHealthService(index, cache, embedder)

	return nil
}

// buildEmbedder returns the gateway-wrapped provider: OpenAI when an API
// key is configured, the zero-vector stub otherwise.
func buildEmbedder(cfg *file.AppConfig) driven.EmbeddingService {
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("No OpenAI API key configured; embeddings are stubbed and search runs lexical-only")
		return gateway.New(stub.NewEmbeddingService())
	}

	provider, err := openai.NewEmbeddingService(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	if err != nil {
		logger.Warn("Embedding provider misconfigured (%v); falling back to stub", err)
		return gateway.New(stub.NewEmbeddingService())
	}
	return gateway.New(provider)
}

// probeIndex returns a Qdrant client when the endpoint is configured and
// reachable, nil otherwise. A nil index routes search to the lexical path.
func probeIndex(ctx context.Context, cfg *file.AppConfig) driven.VectorIndex {
	if cfg.Qdrant.URL == "" {
		return nil
	}

	index := qdrant.NewIndex(qdrant.Config{
		BaseURL: cfg.Qdrant.URL,
		APIKey:  cfg.Qdrant.APIKey,
	})

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := index.Ping(probeCtx); err != nil {
		logger.Warn("Vector store unreachable at %s (%v); search degrades to lexical matching", cfg.Qdrant.URL, err)
		return nil
	}
	return index
}

// buildCache returns the Redis cache when configured and reachable, the
// in-process cache otherwise.
func buildCache(ctx context.Context, cfg *file.AppConfig) driven.Cache {
	if cfg.Redis.Addr == "" {
		return cachememory.NewCache()
	}

	cache := cacheredis.NewCache(cacheredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := cache.Ping(probeCtx); err != nil {
		logger.Warn("Redis unreachable at %s (%v); using in-process cache", cfg.Redis.Addr, err)
		return cachememory.NewCache()
	}
	cleanups = append(cleanups, cache.Close)
	return cache
}

// localIdentity returns the stable per-installation user ID, generating and
// persisting one on first run.
func localIdentity(cfg *file.AppConfig) (string, error) {
	if cfg.UserID != "" {
		return cfg.UserID, nil
	}

	cfg.UserID = domain.NewID()
	if err := file.Save(flagConfig, cfg); err != nil {
		return "", fmt.Errorf("persisting generated user ID: %w", err)
	}
	return cfg.UserID, nil
}

func shutdown() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			logger.Warn("Shutdown: %v", err)
		}
	}
	cleanups = nil
}
