package app

import (
	"context"
	"fmt"

	"github.com/miru/channelpulse-go/internal/config"
	"github.com/miru/channelpulse-go/internal/service"
	"github.com/miru/channelpulse-go/internal/service/cache"
	"github.com/miru/channelpulse-go/internal/service/database"
	"go.uber.org/zap"
)

// Container bundles the assembled service graph.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Analyzer *service.AnalyzerService

	closers []func()
}

// Close tears down infrastructure connections in reverse build order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. All heavy-weight
// initialization (DB/cache/model providers) happens here so the analyzer
// itself stays pure orchestration.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	snapshots := database.NewSnapshotStore(postgresSvc, logger)
	if err := snapshots.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}

	// Fetch stack
	youtubeSvc, err := service.NewYouTubeService(cfg.YouTube.APIKeys, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	resolverSvc := service.NewResolverService(youtubeSvc, cacheSvc, logger)

	// Model stack
	modelManager, err := service.NewModelManager(ctx, service.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		GroqAPIKeys:    cfg.Groq.APIKeys,
		EnableFallback: cfg.Groq.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	insightSvc, err := service.NewInsightService(modelManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create insight service: %w", err)
	}

	analyzer := service.NewAnalyzerService(youtubeSvc, resolverSvc, insightSvc, snapshots, cacheSvc, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Analyzer: analyzer,
		closers:  closers,
	}, nil
}
