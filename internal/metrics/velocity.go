package metrics

import (
	"math"

	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// ContentVelocity scores upload pace on 0-100: ten points per video per week,
// capped. A single video gives no cadence to measure.
func ContentVelocity(collection domain.VideoCollection) float64 {
	recent := collection.SortedByRecency()
	videos := recent.Videos
	if len(videos) < 2 {
		return 0
	}

	newest := videos[0].PublishedAt
	oldest := videos[len(videos)-1].PublishedAt
	totalDays := newest.Sub(oldest).Hours() / 24
	if totalDays <= 0 {
		return 100
	}

	perWeek := float64(len(videos)) / totalDays * 7
	return util.Clamp(math.Round(perWeek*10*10)/10, 0, 100)
}

// Publishing summarizes the upload schedule from gaps between consecutive
// publish dates.
func Publishing(collection domain.VideoCollection) domain.PublishingPattern {
	recent := collection.SortedByRecency()
	videos := recent.Videos

	pattern := domain.PublishingPattern{
		Frequency:           "Irregular",
		ScheduleConsistency: 50,
	}
	if len(videos) < 2 {
		return pattern
	}

	gaps := make([]float64, 0, len(videos)-1)
	for i := 0; i < len(videos)-1; i++ {
		gap := videos[i].PublishedAt.Sub(videos[i+1].PublishedAt).Hours() / 24
		if gap < 0 {
			gap = 0
		}
		gaps = append(gaps, gap)
	}

	avgGap := mean(gaps)
	pattern.AvgDaysBetween = util.Round(avgGap, 1)
	pattern.ScheduleConsistency = Consistency(gaps)

	switch {
	case avgGap <= 1:
		pattern.Frequency = "Daily"
	case avgGap <= 3:
		pattern.Frequency = "Frequent (2-3 days)"
	case avgGap <= 7:
		pattern.Frequency = "Weekly"
	case avgGap <= 14:
		pattern.Frequency = "Bi-weekly"
	case avgGap <= 30:
		pattern.Frequency = "Monthly"
	default:
		pattern.Frequency = "Irregular"
	}

	return pattern
}
