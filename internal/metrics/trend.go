package metrics

import "github.com/miru/channelpulse-go/internal/domain"

// Trend labels.
const (
	TrendUnknown          = "Unknown"
	TrendInsufficientData = "Insufficient Data"
	TrendExplosiveGrowth  = "Explosive Growth"
	TrendRapidGrowth      = "Rapid Growth"
	TrendGrowing          = "Growing"
	TrendSlowGrowth       = "Slow Growth"
	TrendStable           = "Stable"
	TrendDeclining        = "Declining"
	TrendRapidDecline     = "Rapid Decline"
)

// ViewTrend classifies the view trajectory of the most recent uploads by
// comparing the newer half of the last 10 against the older half. The
// comparison only makes sense chronologically, so any other ordering is
// re-sorted by publish time first.
func ViewTrend(collection domain.VideoCollection) string {
	if collection.Len() == 0 {
		return TrendUnknown
	}
	if collection.Len() < 5 {
		return TrendInsufficientData
	}

	recent := collection.SortedByRecency().Top(10)
	half := len(recent) / 2
	newer := recent[:half]
	older := recent[half:]

	olderAvg := avgViews(older)
	if olderAvg == 0 {
		return TrendStable
	}
	newerAvg := avgViews(newer)

	change := (newerAvg - olderAvg) / olderAvg * 100

	switch {
	case change > 100:
		return TrendExplosiveGrowth
	case change > 50:
		return TrendRapidGrowth
	case change > 20:
		return TrendGrowing
	case change > 5:
		return TrendSlowGrowth
	case change > -20:
		return TrendStable
	case change > -50:
		return TrendDeclining
	default:
		return TrendRapidDecline
	}
}

func avgViews(videos []domain.Video) float64 {
	if len(videos) == 0 {
		return 0
	}
	var total float64
	for _, v := range videos {
		total += float64(v.Views)
	}
	return total / float64(len(videos))
}
