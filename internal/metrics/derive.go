package metrics

import (
	"time"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// Derive runs the full derivation pipeline over one channel's videos and
// assembles the metrics report. The collection may arrive in any order;
// each derivation sorts to the ordering it needs.
func Derive(channel domain.Channel, collection domain.VideoCollection, now time.Time) domain.MetricsReport {
	// Cadence and trend read only the recent upload window; aggregates use
	// the full collection.
	recent := domain.VideoCollection{
		Videos: collection.SortedByRecency().Top(constants.YouTubeConfig.RecentWindow),
		Order:  domain.OrderByRecency,
	}

	engagement := Engagement(collection)
	trend := ViewTrend(recent)
	categories := Categorize(collection.Videos)
	diversity := Diversity(categories)
	performance := Performance(collection.Videos)
	titles := AnalyzeTitles(collection.Videos)

	scale := ChannelScale(channel.SubscriberCount)
	var topViews uint64
	if engagement.TopVideo != nil {
		topViews = engagement.TopVideo.Views
	}
	viralRatio := util.Round(ViralRatio(topViews, channel.SubscriberCount), 1)

	er := engagement.AvgEngagementRate
	consistency := engagement.UploadConsistency

	health := HealthScore(scale, er, consistency, diversity, viralRatio)
	quality := QualityScore(er, consistency, diversity, trend)
	potential := GrowthPotentialLabel(scale, er, consistency, viralRatio)

	ageDays := channel.AgeDays(now)

	report := domain.MetricsReport{
		Engagement:         engagement,
		ViewTrend:          trend,
		ContentVelocity:    ContentVelocity(recent),
		Publishing:         Publishing(recent),
		Categories:         categories,
		ContentDiversity:   diversity,
		ContentGaps:        ContentGaps(categories, channel),
		ContentFreshness:   Freshness(collection, now),
		TrendingAlignment:  TrendingAlignment(collection, now),
		TitleOptimization:  titles.OptimizationScore,
		OptimalLength:      performance.OptimalLength,
		EstimatedRetention: performance.EstimatedRetention,

		ChannelScale:          scale,
		ViralRatio:            viralRatio,
		HealthScore:           health,
		QualityScore:          quality,
		GrowthPotential:       potential,
		PerformanceTier:       PerformanceTier(scale, health, er),
		AudienceLoyalty:       AudienceLoyalty(er, consistency),
		AlgorithmFavorability: AlgorithmFavorability(consistency, diversity, er),
		EngagementHealth:      EngagementHealthLabel(scale, er),

		Prediction: PredictGrowth(channel.SubscriberCount, health, quality, er, consistency, viralRatio, potential),
		Growth:     GrowthRates(channel, ageDays, er, consistency),
	}

	Unify(&report, channel.SubscriberCount)
	return report
}
