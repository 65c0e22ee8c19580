package metrics

import (
	"testing"
	"time"

	"github.com/miru/channelpulse-go/internal/domain"
)

func videosWithViews(views ...uint64) domain.VideoCollection {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := make([]domain.Video, len(views))
	for i, v := range views {
		// Descending publish dates, so index 0 is the newest upload
		videos[i] = domain.Video{
			Views:       v,
			PublishedAt: base.AddDate(0, 0, -i),
		}
	}
	return domain.VideoCollection{Videos: videos, Order: domain.OrderByRecency}
}

func TestViewTrend(t *testing.T) {
	cases := []struct {
		name       string
		collection domain.VideoCollection
		want       string
	}{
		{"no videos", domain.VideoCollection{}, TrendUnknown},
		{"too few videos", videosWithViews(100, 200, 300), TrendInsufficientData},
		{"explosive growth", videosWithViews(300, 300, 300, 100, 100, 100), TrendExplosiveGrowth},
		{"rapid growth", videosWithViews(170, 170, 170, 100, 100, 100), TrendRapidGrowth},
		{"growing", videosWithViews(130, 130, 130, 100, 100, 100), TrendGrowing},
		{"stable", videosWithViews(100, 100, 100, 100, 100, 100), TrendStable},
		{"declining", videosWithViews(70, 70, 70, 100, 100, 100), TrendDeclining},
		{"rapid decline", videosWithViews(10, 10, 10, 100, 100, 100), TrendRapidDecline},
		{"older half has no views", videosWithViews(500, 500, 500, 0, 0, 0), TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ViewTrend(tc.collection); got != tc.want {
				t.Fatalf("ViewTrend() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestViewTrendReordersByRecency(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// View-sorted input: the highest-view videos are the oldest
	videos := []domain.Video{
		{Views: 1000, PublishedAt: base.AddDate(0, 0, -5)},
		{Views: 900, PublishedAt: base.AddDate(0, 0, -4)},
		{Views: 800, PublishedAt: base.AddDate(0, 0, -3)},
		{Views: 100, PublishedAt: base.AddDate(0, 0, -2)},
		{Views: 100, PublishedAt: base.AddDate(0, 0, -1)},
		{Views: 100, PublishedAt: base},
	}
	collection := domain.VideoCollection{Videos: videos, Order: domain.OrderByViews}

	if got := ViewTrend(collection); got != TrendRapidDecline {
		t.Fatalf("ViewTrend() = %q, want %q", got, TrendRapidDecline)
	}
}
