package metrics

import "testing"

func TestChannelScale(t *testing.T) {
	cases := []struct {
		subscribers uint64
		want        string
	}{
		{25_000_000, ScaleMega},
		{10_000_000, ScaleMega},
		{1_500_000, ScaleLarge},
		{250_000, ScaleMedium},
		{50_000, ScaleSmall},
		{5_000, ScaleMicro},
		{500, ScaleNano},
		{0, ScaleNano},
	}

	for _, tc := range cases {
		if got := ChannelScale(tc.subscribers); got != tc.want {
			t.Errorf("ChannelScale(%d) = %q, want %q", tc.subscribers, got, tc.want)
		}
	}
}

func TestViralRatio(t *testing.T) {
	if got := ViralRatio(50_000_000, 1_000_000); got != 50 {
		t.Fatalf("ViralRatio(50M, 1M) = %v, want 50", got)
	}
	// Zero subscribers must not divide by zero
	if got := ViralRatio(1000, 0); got != 1000 {
		t.Fatalf("ViralRatio(1000, 0) = %v, want 1000", got)
	}
}

func TestGrowthPotentialLabel(t *testing.T) {
	cases := []struct {
		name           string
		scale          string
		engagementRate float64
		consistency    float64
		viralRatio     float64
		want           string
	}{
		{"viral breakout", ScaleMedium, 2, 50, 50, PotentialHigh},
		{"strong engagement", ScaleSmall, 9, 50, 1, PotentialHigh},
		{"decent viral reach", ScaleMedium, 2, 50, 12, PotentialMediumHigh},
		{"middling", ScaleSmall, 5, 50, 1, PotentialMedium},
		{"weak", ScaleSmall, 2.5, 50, 1, PotentialLowMedium},
		{"flat", ScaleSmall, 1, 50, 1, PotentialLow},
		{"mega with engaged audience", ScaleMega, 2.5, 80, 0.1, PotentialMedium},
		{"mega ordinary", ScaleMega, 1.6, 40, 0.1, PotentialLowMedium},
		{"mega stagnant", ScaleMega, 0.5, 40, 0.1, PotentialLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GrowthPotentialLabel(tc.scale, tc.engagementRate, tc.consistency, tc.viralRatio)
			if got != tc.want {
				t.Fatalf("GrowthPotentialLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPerformanceTier(t *testing.T) {
	cases := []struct {
		name           string
		scale          string
		healthScore    float64
		engagementRate float64
		want           string
	}{
		{"excellent", ScaleSmall, 85, 7, TierExcellent},
		{"good", ScaleSmall, 70, 5, TierGood},
		{"healthy but disengaged", ScaleSmall, 85, 2, TierAverage},
		{"needs improvement", ScaleSmall, 40, 7, TierNeedsImprovement},
		{"mega uses lower bars", ScaleMega, 85, 2.2, TierExcellent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PerformanceTier(tc.scale, tc.healthScore, tc.engagementRate)
			if got != tc.want {
				t.Fatalf("PerformanceTier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEngagementHealthLabel(t *testing.T) {
	if got := EngagementHealthLabel(ScaleMega, 2.5); got != "Good" {
		t.Fatalf("mega at 2.5%% = %q, want Good", got)
	}
	if got := EngagementHealthLabel(ScaleSmall, 2.5); got != "Needs Work" {
		t.Fatalf("small at 2.5%% = %q, want Needs Work", got)
	}
	if got := EngagementHealthLabel(ScaleLarge, 5); got != "Good" {
		t.Fatalf("large at 5%% = %q, want Good", got)
	}
}

func TestHealthScoreCaps(t *testing.T) {
	got := HealthScore(ScaleSmall, 100, 100, 100, 100)
	if got != 100 {
		t.Fatalf("HealthScore at saturation = %v, want 100", got)
	}
	if got := HealthScore(ScaleNano, 0, 0, 0, 0); got != 0 {
		t.Fatalf("HealthScore at zero = %v, want 0", got)
	}
}
