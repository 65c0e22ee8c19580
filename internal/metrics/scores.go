package metrics

import (
	"math"

	"github.com/miru/channelpulse-go/internal/util"
)

// Channel scale buckets.
const (
	ScaleMega   = "mega"
	ScaleLarge  = "large"
	ScaleMedium = "medium"
	ScaleSmall  = "small"
	ScaleMicro  = "micro"
	ScaleNano   = "nano"
)

// Growth potential labels.
const (
	PotentialHigh       = "High"
	PotentialMediumHigh = "Medium-High"
	PotentialMedium     = "Medium"
	PotentialLowMedium  = "Low-Medium"
	PotentialLow        = "Low"
)

// Performance tiers.
const (
	TierExcellent        = "Excellent"
	TierGood             = "Good"
	TierAverage          = "Average"
	TierNeedsImprovement = "Needs Improvement"
)

// GrowthPotentials enumerates the valid potential labels, used when
// validating model output.
var GrowthPotentials = []string{
	PotentialHigh, PotentialMediumHigh, PotentialMedium, PotentialLowMedium, PotentialLow,
}

// ChannelScale buckets a channel by subscriber count.
func ChannelScale(subscribers uint64) string {
	switch {
	case subscribers >= 10_000_000:
		return ScaleMega
	case subscribers >= 1_000_000:
		return ScaleLarge
	case subscribers >= 100_000:
		return ScaleMedium
	case subscribers >= 10_000:
		return ScaleSmall
	case subscribers >= 1_000:
		return ScaleMicro
	default:
		return ScaleNano
	}
}

// ViralRatio is the top video's views relative to the subscriber base.
func ViralRatio(topVideoViews, subscribers uint64) float64 {
	subs := subscribers
	if subs == 0 {
		subs = 1
	}
	return float64(topVideoViews) / float64(subs)
}

// HealthScore combines engagement, consistency, diversity and viral reach
// with weights tuned per channel scale. Mega channels cannot ride viral
// ratio; tiny channels get more credit for it.
func HealthScore(scale string, engagementRate, consistency, diversity, viralRatio float64) float64 {
	var score float64
	switch scale {
	case ScaleMega:
		score = math.Min(engagementRate*10, 30) +
			math.Min(consistency*0.8, 30) +
			math.Min(diversity*0.4, 20) +
			math.Min(viralRatio*0.1, 20)
	case ScaleSmall, ScaleMicro, ScaleNano:
		score = math.Min(engagementRate*8, 40) +
			math.Min(consistency*0.6, 25) +
			math.Min(diversity*0.5, 20) +
			math.Min(viralRatio*3, 15)
	default:
		score = math.Min(engagementRate*6, 35) +
			math.Min(consistency*0.5, 25) +
			math.Min(diversity*0.4, 20) +
			math.Min(viralRatio*2, 20)
	}
	return util.Round(math.Min(score, 100), 1)
}

// QualityScore rates content quality independent of audience size, with a
// bonus for a growing trajectory.
func QualityScore(engagementRate, consistency, diversity float64, trend string) float64 {
	score := math.Min(engagementRate*7, 40) +
		math.Min(consistency*0.4, 30) +
		math.Min(diversity*0.3, 20)

	switch trend {
	case TrendExplosiveGrowth, TrendRapidGrowth:
		score += 10
	case TrendGrowing, TrendStable:
		score += 5
	}

	return util.Round(math.Min(score, 100), 1)
}

// GrowthPotentialLabel classifies growth headroom. Mega channels are judged
// on engagement alone since their viral ratios are structurally low.
func GrowthPotentialLabel(scale string, engagementRate, consistency, viralRatio float64) string {
	if scale == ScaleMega {
		switch {
		case engagementRate >= 2 && consistency >= 70:
			return PotentialMedium
		case engagementRate >= 1.5:
			return PotentialLowMedium
		default:
			return PotentialLow
		}
	}

	switch {
	case viralRatio > 20 || engagementRate > 8:
		return PotentialHigh
	case viralRatio > 10 || engagementRate > 6:
		return PotentialMediumHigh
	case viralRatio > 5 || engagementRate > 4:
		return PotentialMedium
	case engagementRate > 2:
		return PotentialLowMedium
	default:
		return PotentialLow
	}
}

// PerformanceTier grades the channel from health and engagement, with
// looser engagement bars for mega channels.
func PerformanceTier(scale string, healthScore, engagementRate float64) string {
	excellentBar, goodBar := 6.0, 4.0
	if scale == ScaleMega {
		excellentBar, goodBar = 2.0, 1.5
	}

	switch {
	case healthScore >= 80 && engagementRate >= excellentBar:
		return TierExcellent
	case healthScore >= 65 && engagementRate >= goodBar:
		return TierGood
	case healthScore >= 50:
		return TierAverage
	default:
		return TierNeedsImprovement
	}
}

// AudienceLoyalty estimates repeat-viewer strength from engagement and
// upload consistency.
func AudienceLoyalty(engagementRate, consistency float64) float64 {
	return util.Round(math.Min(engagementRate*1.2+consistency*0.3, 100), 1)
}

// AlgorithmFavorability estimates how well the channel feeds recommendation
// systems.
func AlgorithmFavorability(consistency, diversity, engagementRate float64) float64 {
	return util.Round(math.Min(consistency*0.4+diversity*0.3+engagementRate*0.3, 100), 1)
}

// EngagementHealthLabel grades the raw engagement rate against bars scaled
// to channel size.
func EngagementHealthLabel(scale string, engagementRate float64) string {
	var excellent, good, average float64
	switch scale {
	case ScaleMega:
		excellent, good, average = 3, 2, 1
	case ScaleLarge:
		excellent, good, average = 6, 4, 2.5
	default:
		excellent, good, average = 8, 5, 3
	}

	switch {
	case engagementRate >= excellent:
		return "Excellent"
	case engagementRate >= good:
		return "Good"
	case engagementRate >= average:
		return "Average"
	default:
		return "Needs Work"
	}
}
