package metrics

import (
	"math"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// PredictGrowth projects subscriber counts 3, 6 and 12 months out from a
// base rate tied to channel size, amplified by growth potential and viral
// reach, capped for realism.
func PredictGrowth(subscribers uint64, healthScore, qualityScore, engagementRate, consistency, viralRatio float64, potential string) domain.GrowthPrediction {
	var base float64
	switch {
	case subscribers >= 1_000_000:
		base = 0.3
	case subscribers >= 100_000:
		base = 0.8
	case subscribers >= 10_000:
		base = 1.5
	case subscribers >= 1_000:
		base = 2.5
	default:
		base = 4.0
	}

	multiplier := 1.0
	switch potential {
	case PotentialHigh:
		multiplier = 1.8
	case PotentialMediumHigh:
		multiplier = 1.4
	case PotentialMedium:
		multiplier = 1.0
	case PotentialLowMedium:
		multiplier = 0.6
	case PotentialLow:
		multiplier = 0.3
	}

	viralMultiplier := 1.0
	if viralRatio > 10 {
		viralMultiplier = 1.5
	} else if viralRatio > 5 {
		viralMultiplier = 1.3
	}

	monthly := base * multiplier * viralMultiplier

	// Active channels keep at least a trickle of growth
	if engagementRate > 3 && consistency > 50 {
		monthly = math.Max(monthly, 0.5)
	}
	monthly = math.Min(monthly, constants.ScoreBounds.MaxMonthlyRate)

	project := func(months int) uint64 {
		return uint64(float64(subscribers) * math.Pow(1+monthly/100, float64(months)))
	}

	return domain.GrowthPrediction{
		MonthlyRatePct: util.Round(monthly, 1),
		ThreeMonth:     project(3),
		SixMonth:       project(6),
		TwelveMonth:    project(12),
		Confidence:     math.Min(healthScore/100, constants.ScoreBounds.MaxConfidence),
		Drivers:        growthDrivers(healthScore, qualityScore, engagementRate, consistency),
	}
}

func growthDrivers(healthScore, qualityScore, engagementRate, consistency float64) []string {
	drivers := make([]string, 0, 4)

	if healthScore >= 70 {
		drivers = append(drivers, "Strong channel health")
	}
	if engagementRate >= 6 {
		drivers = append(drivers, "High engagement rate")
	}
	if consistency >= 70 {
		drivers = append(drivers, "Consistent performance")
	}
	if qualityScore >= 75 {
		drivers = append(drivers, "Quality content")
	}
	if len(drivers) == 0 {
		drivers = append(drivers, "Foundation building phase")
	}
	if len(drivers) > 3 {
		drivers = drivers[:3]
	}
	return drivers
}

// GrowthRates derives per-day and per-subscriber ratios from lifetime
// channel totals.
func GrowthRates(channel domain.Channel, ageDays int, engagementRate, consistency float64) domain.GrowthMetrics {
	subs := float64(channel.SubscriberCount)
	views := float64(channel.ViewCount)

	subsDivisor := math.Max(subs, 1)
	ageDivisor := math.Max(float64(ageDays), 1)

	return domain.GrowthMetrics{
		ViewsPerSubscriber: util.Round(views/subsDivisor, 1),
		SubscribersPerDay:  util.Round(subs/ageDivisor, 2),
		ViewsPerDay:        util.Round(views/ageDivisor, 1),
		EngagementVelocity: util.Round(engagementRate*consistency/100, 2),
	}
}

// Unify reconciles the final report fields: the viral ratio is recomputed
// from the final numbers, and tiny channels with weak engagement cannot keep
// an inflated health score.
func Unify(report *domain.MetricsReport, subscribers uint64) {
	var topViews uint64
	if report.Engagement.TopVideo != nil {
		topViews = report.Engagement.TopVideo.Views
	}
	report.ViralRatio = util.Round(ViralRatio(topViews, subscribers), 1)

	scale := ChannelScale(subscribers)
	if (scale == ScaleNano || scale == ScaleMicro) && report.Engagement.AvgEngagementRate < 3 {
		if report.HealthScore > 70 {
			report.HealthScore = math.Max(30, math.Min(60, report.HealthScore))
		}
	}
}
