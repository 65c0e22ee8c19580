package metrics

import (
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/util"
)

// Engagement aggregates per-video statistics into channel-level engagement
// figures. The input must be view-ordered; the top video is its first
// element. An empty collection yields the all-zero summary.
func Engagement(collection domain.VideoCollection) domain.EngagementSummary {
	byViews := collection.SortedByViews()
	videos := byViews.Videos

	if len(videos) == 0 {
		return domain.EngagementSummary{}
	}

	summary := domain.EngagementSummary{
		// Neutral default when no video has a usable rate
		AvgEngagementRate: 50,
	}

	rates := make([]float64, 0, len(videos))
	viewCounts := make([]float64, 0, len(videos))
	var totalViews, totalLikes, totalComments float64

	for _, v := range videos {
		totalViews += float64(v.Views)
		totalLikes += float64(v.Likes)
		totalComments += float64(v.Comments)
		viewCounts = append(viewCounts, float64(v.Views))

		if rate, ok := v.EngagementRate(); ok {
			rates = append(rates, rate)
		}
	}

	n := float64(len(videos))
	summary.TotalViews = uint64(totalViews)
	summary.TotalLikes = uint64(totalLikes)
	summary.TotalComments = uint64(totalComments)
	summary.AvgViews = util.Round(totalViews/n, 1)
	summary.AvgLikes = util.Round(totalLikes/n, 1)
	summary.AvgComments = util.Round(totalComments/n, 1)
	summary.ViewsStdDev = util.Round(stdev(viewCounts), 1)

	if len(rates) > 0 {
		summary.AvgEngagementRate = util.Round(mean(rates), 2)
		summary.EngagementStdDev = util.Round(stdev(rates), 1)
	}

	summary.UploadConsistency = Consistency(viewCounts)
	summary.EngagementConsistency = Consistency(rates)

	// Too few videos to judge stability, floor at a neutral score
	if len(videos) < 3 {
		if summary.UploadConsistency < 60 {
			summary.UploadConsistency = 60
		}
		if summary.EngagementConsistency < 60 {
			summary.EngagementConsistency = 60
		}
	}

	top := videos[0]
	summary.TopVideo = &top

	return summary
}
