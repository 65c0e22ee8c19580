package service

import (
	"context"
	"strings"
	"time"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/metrics"
	"github.com/miru/channelpulse-go/internal/service/cache"
	"go.uber.org/zap"
)

// ChannelFetcher is the fetch-client surface the analyzer needs.
type ChannelFetcher interface {
	FetchChannel(ctx context.Context, idOrHandle string) (*domain.Channel, error)
	FetchVideos(ctx context.Context, channelID string) (domain.VideoCollection, error)
}

// IdentifierResolver turns a raw query into a channel ID or handle.
type IdentifierResolver interface {
	Resolve(ctx context.Context, query string) (string, bool, error)
	ResolveHandleByScrape(ctx context.Context, handle string) (string, error)
}

// SnapshotRepo persists daily report snapshots for stale-data fallback.
type SnapshotRepo interface {
	Upsert(ctx context.Context, report *domain.Report) error
	Latest(ctx context.Context, channelID string, maxAge time.Duration) (*domain.Report, error)
}

// ReportCache is the short-TTL report cache surface.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// AnalyzerService drives the full pipeline: resolve, fetch, derive metrics,
// generate insights, persist. Degrades from live data to a recent snapshot
// to a static fallback report rather than failing.
type AnalyzerService struct {
	fetcher   ChannelFetcher
	resolver  IdentifierResolver
	insights  *InsightService
	snapshots SnapshotRepo
	cache     ReportCache
	logger    *zap.Logger
	now       func() time.Time
}

func NewAnalyzerService(
	fetcher ChannelFetcher,
	resolver IdentifierResolver,
	insights *InsightService,
	snapshots SnapshotRepo,
	reportCache ReportCache,
	logger *zap.Logger,
) *AnalyzerService {
	return &AnalyzerService{
		fetcher:   fetcher,
		resolver:  resolver,
		insights:  insights,
		snapshots: snapshots,
		cache:     reportCache,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze produces a full report for a channel query (ID, @handle, URL or
// name). It always returns a structurally complete report; total failure
// degrades to the static fallback instead of an error.
func (as *AnalyzerService) Analyze(ctx context.Context, query string, forceRefresh bool) (*domain.Report, error) {
	identifier, isID, err := as.resolver.Resolve(ctx, query)
	if err != nil {
		as.logger.Warn("Resolution failed, serving fallback report",
			zap.String("query", query),
			zap.Error(err))
		return as.fallbackReport(query), nil
	}

	cacheKey := cache.AnalysisKey(identifier)
	if as.cache != nil {
		if forceRefresh {
			if err := as.cache.Del(ctx, cacheKey); err != nil {
				as.logger.Warn("Stale cache entry removal failed", zap.String("key", cacheKey), zap.Error(err))
			}
		} else {
			var cached domain.Report
			if err := as.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Channel.ID != "" {
				as.logger.Debug("Analysis cache hit", zap.String("key", cacheKey))
				return &cached, nil
			}
		}
	}

	report, fetchErr := as.buildLiveReport(ctx, identifier)
	if fetchErr != nil {
		as.logger.Warn("Live fetch failed, degrading",
			zap.String("query", query),
			zap.Error(fetchErr))
		return as.degradedReport(ctx, identifier, isID)
	}

	if as.snapshots != nil {
		if err := as.snapshots.Upsert(ctx, report); err != nil {
			as.logger.Error("Snapshot upsert failed",
				zap.String("channel", report.Channel.ID),
				zap.Error(err))
		}
	}
	if as.cache != nil {
		if err := as.cache.Set(ctx, cache.AnalysisKey(report.Channel.ID), report, constants.CacheTTL.AnalysisReport); err != nil {
			as.logger.Error("Analysis cache write failed", zap.Error(err))
		}
	}

	return report, nil
}

func (as *AnalyzerService) buildLiveReport(ctx context.Context, identifier string) (*domain.Report, error) {
	channel, err := as.fetcher.FetchChannel(ctx, identifier)
	if err != nil {
		return nil, err
	}

	collection, err := as.fetcher.FetchVideos(ctx, channel.ID)
	if err != nil {
		// Channel-level stats still carry a useful report
		as.logger.Warn("Video fetch failed, deriving from channel stats only",
			zap.String("channel", channel.ID),
			zap.Error(err))
		collection = domain.VideoCollection{}
	}

	now := as.now()
	report := &domain.Report{
		Channel:        *channel,
		GeneratedAt:    now,
		DataSource:     domain.SourceLiveAPI,
		Metrics:        metrics.Derive(*channel, collection, now),
		VideosAnalyzed: collection.Len(),
	}
	report.Demographics = metrics.InferDemographics(report.Metrics.Categories)
	as.insights.Enrich(ctx, report)

	return report, nil
}

// degradedReport serves the most recent snapshot within the staleness
// window, or a static fallback report when none exists.
func (as *AnalyzerService) degradedReport(ctx context.Context, identifier string, isID bool) (*domain.Report, error) {
	channelID := identifier
	if !isID {
		resolved, err := as.resolver.ResolveHandleByScrape(ctx, strings.TrimPrefix(identifier, "@"))
		if err != nil {
			as.logger.Warn("Scrape resolution failed", zap.String("handle", identifier), zap.Error(err))
			return as.fallbackReport(identifier), nil
		}
		channelID = resolved
	}

	if as.snapshots != nil {
		snapshot, err := as.snapshots.Latest(ctx, channelID, constants.CacheTTL.SnapshotMaxAge)
		if err != nil {
			as.logger.Error("Snapshot lookup failed", zap.String("channel", channelID), zap.Error(err))
		}
		if snapshot != nil {
			snapshot.DataSource = domain.SourceSnapshot
			as.logger.Info("Serving snapshot report",
				zap.String("channel", channelID),
				zap.Time("generated_at", snapshot.GeneratedAt))
			return snapshot, nil
		}
	}

	return as.fallbackReport(channelID), nil
}

// fallbackReport is the last resort: zeroed metrics with unknown labels and
// rule-based guidance, clearly marked so callers can surface the degradation.
func (as *AnalyzerService) fallbackReport(identifier string) *domain.Report {
	report := &domain.Report{
		Channel: domain.Channel{
			ID:    identifier,
			Title: "Unknown Channel",
		},
		GeneratedAt: as.now(),
		DataSource:  domain.SourceFallback,
		Metrics: domain.MetricsReport{
			ViewTrend:        metrics.TrendUnknown,
			ChannelScale:     "unknown",
			GrowthPotential:  "Unknown",
			PerformanceTier:  "Unknown",
			EngagementHealth: "Unknown",
			OptimalLength:    "Unknown",
			Publishing:       domain.PublishingPattern{Frequency: "Unknown"},
		},
		Demographics: metrics.InferDemographics(nil),
	}
	report.Insights = ruleBasedInsights(&report.Metrics, report.Channel)
	report.Recommendations = ruleBasedRecommendations(&report.Metrics, report.Channel)
	report.Generation = domain.GenerationInfo{Provider: "rules", RuleBased: true}
	return report
}
