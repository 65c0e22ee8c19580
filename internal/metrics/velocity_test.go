package metrics

import (
	"testing"
	"time"

	"github.com/miru/channelpulse-go/internal/domain"
)

func collectionWithGapDays(gaps ...int) domain.VideoCollection {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	videos := []domain.Video{{PublishedAt: base}}
	current := base
	for _, gap := range gaps {
		current = current.AddDate(0, 0, -gap)
		videos = append(videos, domain.Video{PublishedAt: current})
	}
	return domain.VideoCollection{Videos: videos, Order: domain.OrderByRecency}
}

func TestContentVelocity(t *testing.T) {
	if got := ContentVelocity(domain.VideoCollection{}); got != 0 {
		t.Fatalf("empty collection = %v, want 0", got)
	}
	if got := ContentVelocity(collectionWithGapDays()); got != 0 {
		t.Fatalf("single video = %v, want 0", got)
	}

	// 3 videos over 14 days: 1.5 per week, 15 points
	if got := ContentVelocity(collectionWithGapDays(7, 7)); got != 15 {
		t.Fatalf("3 videos over 14 days = %v, want 15", got)
	}

	// 20 videos in a single day saturates the score
	sameDay := make([]domain.Video, 20)
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range sameDay {
		sameDay[i] = domain.Video{PublishedAt: published}
	}
	got := ContentVelocity(domain.VideoCollection{Videos: sameDay, Order: domain.OrderByRecency})
	if got != 100 {
		t.Fatalf("burst upload = %v, want 100", got)
	}
}

func TestPublishing(t *testing.T) {
	cases := []struct {
		name          string
		collection    domain.VideoCollection
		wantFrequency string
	}{
		{"single video", collectionWithGapDays(), "Irregular"},
		{"daily", collectionWithGapDays(1, 1, 1), "Daily"},
		{"every few days", collectionWithGapDays(2, 3, 2), "Frequent (2-3 days)"},
		{"weekly", collectionWithGapDays(7, 6, 7), "Weekly"},
		{"bi-weekly", collectionWithGapDays(14, 12, 13), "Bi-weekly"},
		{"monthly", collectionWithGapDays(28, 30, 25), "Monthly"},
		{"irregular", collectionWithGapDays(45, 90, 10), "Irregular"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Publishing(tc.collection)
			if got.Frequency != tc.wantFrequency {
				t.Fatalf("Frequency = %q, want %q", got.Frequency, tc.wantFrequency)
			}
		})
	}
}

func TestPublishingAvgGap(t *testing.T) {
	got := Publishing(collectionWithGapDays(2, 4))
	if got.AvgDaysBetween != 3 {
		t.Fatalf("AvgDaysBetween = %v, want 3", got.AvgDaysBetween)
	}
}
