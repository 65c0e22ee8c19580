package metrics

import (
	"testing"

	"github.com/miru/channelpulse-go/internal/domain"
)

func TestCategorize(t *testing.T) {
	videos := []domain.Video{
		{
			Title:       "Go Tutorial for Beginners",
			Description: "Learn the basics step by step",
			Tags:        []string{"tutorial", "golang"},
		},
		{
			Title: "Mechanical Keyboard Review",
			Tags:  []string{"unboxing"},
		},
	}

	scores := Categorize(videos)
	if len(scores) == 0 {
		t.Fatal("expected categories, got none")
	}

	byName := make(map[string]float64, len(scores))
	for _, s := range scores {
		byName[s.Name] = s.Score
	}

	// Title hit (1.2*2) + description hit (1.2*1.5) + tag hit (1.2)
	if got := byName["tutorial"]; got != 5.4 {
		t.Fatalf("tutorial score = %v, want 5.4", got)
	}
	// Title hit (1.1*2) + tag hit (1.1)
	if got := byName["review"]; got != 3.3 {
		t.Fatalf("review score = %v, want 3.3", got)
	}

	if scores[0].Name != "tutorial" {
		t.Fatalf("top category = %q, want tutorial", scores[0].Name)
	}
}

func TestCategorizeCountsFirstKeywordPerField(t *testing.T) {
	videos := []domain.Video{
		{Title: "Tutorial guide: learn this walkthrough"},
	}

	scores := Categorize(videos)
	byName := make(map[string]float64, len(scores))
	for _, s := range scores {
		byName[s.Name] = s.Score
	}

	// Multiple tutorial keywords in one title still score a single title hit
	if got := byName["tutorial"]; got != 2.4 {
		t.Fatalf("tutorial score = %v, want 2.4", got)
	}
}

func TestDiversity(t *testing.T) {
	if got := Diversity(nil); got != 0 {
		t.Fatalf("Diversity(nil) = %v, want 0", got)
	}

	single := []domain.CategoryScore{{Name: "gaming", Score: 10}}
	// One category has zero entropy but earns the strong-category bonus
	if got := Diversity(single); got != 10 {
		t.Fatalf("Diversity(single) = %v, want 10", got)
	}

	balanced := []domain.CategoryScore{
		{Name: "gaming", Score: 10},
		{Name: "tech", Score: 10},
		{Name: "review", Score: 10},
	}
	// Max entropy (100) plus capped strong-category bonus (20)
	if got := Diversity(balanced); got != 100 {
		t.Fatalf("Diversity(balanced) = %v, want 100", got)
	}
}

func TestContentGaps(t *testing.T) {
	channel := domain.Channel{
		Title:       "TechLab",
		Description: "We teach software skills and compare products for quality",
	}
	covered := []domain.CategoryScore{
		{Name: "tech", Score: 5},
	}

	gaps := ContentGaps(covered, channel)

	if len(gaps) == 0 {
		t.Fatal("expected gap suggestions, got none")
	}
	if len(gaps) > 4 {
		t.Fatalf("got %d gaps, want at most 4", len(gaps))
	}
	for _, gap := range gaps {
		if gap == "tech" {
			t.Fatal("covered category suggested as a gap")
		}
	}
}
