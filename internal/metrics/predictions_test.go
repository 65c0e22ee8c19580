package metrics

import (
	"testing"

	"github.com/miru/channelpulse-go/internal/domain"
)

func TestPredictGrowth(t *testing.T) {
	// Small channel, high potential, strong viral reach: 1.5 * 1.8 * 1.5
	pred := PredictGrowth(50_000, 80, 70, 7, 75, 15, PotentialHigh)

	if pred.MonthlyRatePct != 4.1 {
		t.Fatalf("MonthlyRatePct = %v, want 4.1", pred.MonthlyRatePct)
	}
	if pred.ThreeMonth <= 50_000 {
		t.Fatalf("ThreeMonth = %d, want growth above the current base", pred.ThreeMonth)
	}
	if pred.SixMonth <= pred.ThreeMonth || pred.TwelveMonth <= pred.SixMonth {
		t.Fatalf("projections must compound: %d / %d / %d",
			pred.ThreeMonth, pred.SixMonth, pred.TwelveMonth)
	}
	if pred.Confidence != 0.8 {
		t.Fatalf("Confidence = %v, want 0.8", pred.Confidence)
	}
}

func TestPredictGrowthCapsAndFloors(t *testing.T) {
	// Nano channel with every multiplier maxed: 4.0 * 1.8 * 1.5
	capped := PredictGrowth(500, 90, 80, 9, 80, 50, PotentialHigh)
	if capped.MonthlyRatePct != 10.8 {
		t.Fatalf("maxed MonthlyRatePct = %v, want 10.8", capped.MonthlyRatePct)
	}

	// Active channels keep a growth floor even with low potential
	floored := PredictGrowth(2_000_000, 50, 50, 4, 60, 0, PotentialLow)
	if floored.MonthlyRatePct != 0.5 {
		t.Fatalf("floored MonthlyRatePct = %v, want 0.5", floored.MonthlyRatePct)
	}
}

func TestGrowthDrivers(t *testing.T) {
	drivers := growthDrivers(80, 80, 7, 80)
	if len(drivers) != 3 {
		t.Fatalf("got %d drivers, want 3", len(drivers))
	}

	baseline := growthDrivers(10, 10, 1, 10)
	if len(baseline) != 1 || baseline[0] != "Foundation building phase" {
		t.Fatalf("baseline drivers = %v, want the foundation phase only", baseline)
	}
}

func TestUnifyClampsInflatedSmallChannelHealth(t *testing.T) {
	report := &domain.MetricsReport{
		HealthScore: 88,
		Engagement: domain.EngagementSummary{
			AvgEngagementRate: 1.5,
			TopVideo:          &domain.Video{Views: 5_000},
		},
	}

	Unify(report, 500)

	if report.HealthScore < 30 || report.HealthScore > 60 {
		t.Fatalf("HealthScore = %v, want clamped into [30, 60]", report.HealthScore)
	}
	if report.ViralRatio != 10 {
		t.Fatalf("ViralRatio = %v, want 10", report.ViralRatio)
	}
}

func TestGrowthRates(t *testing.T) {
	channel := domain.Channel{SubscriberCount: 10_000, ViewCount: 1_000_000}
	rates := GrowthRates(channel, 1000, 5, 80)

	if rates.ViewsPerSubscriber != 100 {
		t.Fatalf("ViewsPerSubscriber = %v, want 100", rates.ViewsPerSubscriber)
	}
	if rates.SubscribersPerDay != 10 {
		t.Fatalf("SubscribersPerDay = %v, want 10", rates.SubscribersPerDay)
	}
	if rates.ViewsPerDay != 1000 {
		t.Fatalf("ViewsPerDay = %v, want 1000", rates.ViewsPerDay)
	}
	if rates.EngagementVelocity != 4 {
		t.Fatalf("EngagementVelocity = %v, want 4", rates.EngagementVelocity)
	}
}
