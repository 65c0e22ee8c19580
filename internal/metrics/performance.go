package metrics

import (
	"math"

	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// PerformanceSummary carries duration and retention derivations.
type PerformanceSummary struct {
	AvgDurationSeconds  float64
	OptimalLength       string
	EstimatedRetention  float64
	DurationConsistency float64
}

const defaultOptimalLength = "Medium (8-15 minutes)"

// Performance derives duration-weighted performance figures. A video's
// performance is its views amplified by engagement; retention is estimated
// from the engagement fraction and capped at 95. An empty input yields
// zeroed figures with an "Unknown" length bucket.
func Performance(videos []domain.Video) PerformanceSummary {
	if len(videos) == 0 {
		return PerformanceSummary{OptimalLength: "Unknown"}
	}

	summary := PerformanceSummary{}

	durations := make([]float64, 0, len(videos))
	performances := make([]float64, 0, len(videos))
	retentions := make([]float64, 0, len(videos))

	for _, v := range videos {
		durations = append(durations, float64(v.DurationSeconds))

		if v.Views == 0 {
			continue
		}
		engagement := float64(v.Likes+v.Comments) / float64(v.Views)
		performances = append(performances, float64(v.Views)*(1+engagement))
		retentions = append(retentions, math.Min(engagement*200, 95))
	}

	summary.AvgDurationSeconds = util.Round(mean(durations), 1)
	summary.EstimatedRetention = util.Round(mean(retentions), 1)
	summary.DurationConsistency = Consistency(durations)
	summary.OptimalLength = optimalLength(durations, performances)

	return summary
}

// optimalLength picks a duration bucket, weighting each duration by its
// video's share of the best performance.
func optimalLength(durations, performances []float64) string {
	if len(durations) == 0 || len(performances) == 0 {
		return defaultOptimalLength
	}

	best := 0.0
	for _, p := range performances {
		if p > best {
			best = p
		}
	}

	var weightedSum, weightedCount float64
	for i, d := range durations {
		if i >= len(performances) {
			break
		}
		weight := 1.0
		if best > 0 {
			weight = performances[i] / best
		}
		repeats := float64(int(weight * 10))
		weightedSum += d * repeats
		weightedCount += repeats
	}

	avg := mean(durations)
	if weightedCount > 0 {
		avg = weightedSum / weightedCount
	}

	switch {
	case avg < 180:
		return "Short (under 3 minutes)"
	case avg < 480:
		return "Medium-Short (3-8 minutes)"
	case avg < 900:
		return defaultOptimalLength
	case avg < 1800:
		return "Long (15-30 minutes)"
	default:
		return "Very Long (30+ minutes)"
	}
}
