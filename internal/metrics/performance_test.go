package metrics

import (
	"testing"

	"github.com/miru/channelpulse-go/internal/domain"
)

func TestPerformanceZeroedOnEmptyInput(t *testing.T) {
	summary := Performance(nil)

	if summary.OptimalLength != "Unknown" {
		t.Fatalf("OptimalLength = %q, want Unknown", summary.OptimalLength)
	}
	if summary.AvgDurationSeconds != 0 || summary.EstimatedRetention != 0 || summary.DurationConsistency != 0 {
		t.Fatalf("empty input must yield zeroed figures, got %+v", summary)
	}
}

func TestPerformanceDefaultBucketWithoutViewData(t *testing.T) {
	// Durations exist but no video has views, so no performance weighting
	summary := Performance([]domain.Video{
		{ID: "a", DurationSeconds: 600},
		{ID: "b", DurationSeconds: 700},
		{ID: "c", DurationSeconds: 650},
	})

	if summary.OptimalLength != defaultOptimalLength {
		t.Fatalf("OptimalLength = %q, want %q", summary.OptimalLength, defaultOptimalLength)
	}
	if summary.AvgDurationSeconds != 650 {
		t.Fatalf("AvgDurationSeconds = %v, want 650", summary.AvgDurationSeconds)
	}
}

func TestPerformanceWeightedOptimalLength(t *testing.T) {
	// The 10-minute video dominates performance, pulling the bucket to Medium
	summary := Performance([]domain.Video{
		{ID: "a", DurationSeconds: 600, Views: 100_000, Likes: 5_000, Comments: 500},
		{ID: "b", DurationSeconds: 60, Views: 1_000, Likes: 10},
	})

	if summary.OptimalLength != "Medium (8-15 minutes)" {
		t.Fatalf("OptimalLength = %q, want the medium bucket", summary.OptimalLength)
	}
	if summary.EstimatedRetention <= 0 {
		t.Fatalf("EstimatedRetention = %v, want a positive estimate", summary.EstimatedRetention)
	}
}
