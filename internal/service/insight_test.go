package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/miru/channelpulse-go/internal/domain"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	responses []string
	metadata  GenerateMetadata
	err       error
	calls     int
	prompts   []string
}

func (f *fakeGenerator) HasProvider() bool {
	return true
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, prompt string, dest any, _ *GenerateOptions) (*GenerateMetadata, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	response := f.responses[len(f.responses)-1]
	if f.calls < len(f.responses) {
		response = f.responses[f.calls]
	}
	f.calls++
	if err := json.Unmarshal([]byte(response), dest); err != nil {
		return nil, err
	}
	meta := f.metadata
	return &meta, nil
}

func modelInsight(title string) string {
	return `{"type": "growth_opportunity", "title": "` + title + `",
	  "description": "a grounded observation", "priority": "high", "confidence": 0.9,
	  "actionable_steps": ["step one", "step two", "step three"]}`
}

func insightPayload(health float64, titles ...string) string {
	items := make([]string, 0, len(titles))
	for _, title := range titles {
		items = append(items, modelInsight(title))
	}
	return fmt.Sprintf(`{"health_score": %g, "quality_score": 68, "growth_potential": "Medium-High", "insights": [%s]}`,
		health, strings.Join(items, ","))
}

const recommendationPayload = `{"recommendations": [
  {"type": "content_strategy", "title": "do a", "description": "improves views", "priority": "high",
   "actionable_steps": ["a1", "a2", "a3"]},
  {"type": "optimization", "title": "do b", "description": "improves subs", "priority": "medium",
   "actionable_steps": ["b1", "b2", "b3"]},
  {"type": "general", "title": "do c", "description": "improves watch time", "priority": "low",
   "actionable_steps": ["c1", "c2", "c3"]}]}`

func testReport() *domain.Report {
	return &domain.Report{
		Channel: domain.Channel{
			ID:              "UC-test",
			Title:           "Test Channel",
			SubscriberCount: 50_000,
			ViewCount:       5_000_000,
		},
		Metrics: domain.MetricsReport{
			HealthScore:      72,
			QualityScore:     68,
			GrowthPotential:  "Medium-High",
			ViralRatio:       12,
			ContentDiversity: 70,
			Engagement: domain.EngagementSummary{
				AvgEngagementRate: 5.5,
			},
		},
		VideosAnalyzed: 30,
	}
}

func TestEnrichUsesModelOutput(t *testing.T) {
	gen := &fakeGenerator{
		responses: []string{
			insightPayload(72, "insight one", "insight two", "insight three"),
			recommendationPayload,
		},
		metadata: GenerateMetadata{Provider: "Gemini", Model: "test-model"},
	}
	svc, err := NewInsightService(gen, zap.NewNop())
	if err != nil {
		t.Fatalf("NewInsightService: %v", err)
	}

	report := testReport()
	svc.Enrich(context.Background(), report)

	if len(report.Insights) != 3 || report.Insights[0].Title != "insight one" {
		t.Fatalf("Insights = %v, want the model's three insights", report.Insights)
	}
	if len(report.Insights[0].Steps) != 3 {
		t.Fatalf("Steps = %v, want exactly 3", report.Insights[0].Steps)
	}
	if len(report.Recommendations) != 3 || report.Recommendations[1].Title != "do b" {
		t.Fatalf("Recommendations = %v, want the model's three entries", report.Recommendations)
	}
	if report.Generation.RuleBased || report.Generation.Provider != "Gemini" {
		t.Fatalf("Generation = %+v, want Gemini-attributed metadata", report.Generation)
	}
}

func TestEnrichTruncatesOverproducedInsights(t *testing.T) {
	gen := &fakeGenerator{
		responses: []string{
			insightPayload(72, "one", "two", "three", "four", "five"),
			recommendationPayload,
		},
		metadata: GenerateMetadata{Provider: "Gemini"},
	}
	svc, err := NewInsightService(gen, zap.NewNop())
	if err != nil {
		t.Fatalf("NewInsightService: %v", err)
	}

	report := testReport()
	svc.Enrich(context.Background(), report)

	if len(report.Insights) != 3 {
		t.Fatalf("got %d insights, want exactly 3", len(report.Insights))
	}
	if report.Insights[2].Title != "three" {
		t.Fatalf("Insights[2].Title = %q, want the third item kept in order", report.Insights[2].Title)
	}
}

func TestEnrichFallsBackOnProviderError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("all providers down")}
	svc, err := NewInsightService(gen, zap.NewNop())
	if err != nil {
		t.Fatalf("NewInsightService: %v", err)
	}

	report := testReport()
	svc.Enrich(context.Background(), report)

	if len(report.Insights) != 3 {
		t.Fatalf("got %d rule-based insights, want 3", len(report.Insights))
	}
	if len(report.Recommendations) != 3 {
		t.Fatalf("got %d rule-based recommendations, want 3", len(report.Recommendations))
	}
	if !report.Generation.RuleBased {
		t.Fatalf("Generation = %+v, want rule-based flag set", report.Generation)
	}
}

func TestEnrichRejectsDriftedScores(t *testing.T) {
	// Scores far from the derived values must not be accepted
	gen := &fakeGenerator{
		responses: []string{insightPayload(10, "a", "b", "c")},
		metadata:  GenerateMetadata{Provider: "Gemini"},
	}
	svc, err := NewInsightService(gen, zap.NewNop())
	if err != nil {
		t.Fatalf("NewInsightService: %v", err)
	}

	report := testReport()
	svc.Enrich(context.Background(), report)

	if !report.Generation.RuleBased {
		t.Fatalf("Generation = %+v, want rule-based after rejected responses", report.Generation)
	}
	if gen.calls != maxGenerationAttempts {
		t.Fatalf("got %d generation attempts, want %d", gen.calls, maxGenerationAttempts)
	}
}

func validInsightResponse() *insightResponse {
	insight := func(title string) domain.Insight {
		return domain.Insight{
			Type:        domain.InsightGrowthOpportunity,
			Title:       title,
			Description: "a grounded observation",
			Priority:    domain.PriorityHigh,
			Confidence:  0.9,
			Steps:       []string{"one", "two", "three"},
		}
	}
	return &insightResponse{
		HealthScore:     75,
		QualityScore:    60,
		GrowthPotential: "Medium",
		Insights:        []domain.Insight{insight("a"), insight("b"), insight("c")},
	}
}

func TestValidateInsightResponse(t *testing.T) {
	derived := &domain.MetricsReport{HealthScore: 70, QualityScore: 65}

	if err := validateInsightResponse(validInsightResponse(), derived); err != nil {
		t.Fatalf("valid response rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(r *insightResponse)
	}{
		{"too few insights", func(r *insightResponse) { r.Insights = r.Insights[:2] }},
		{"blank title", func(r *insightResponse) { r.Insights[1].Title = "  " }},
		{"unknown type tag", func(r *insightResponse) { r.Insights[0].Type = "prophecy" }},
		{"unknown priority", func(r *insightResponse) { r.Insights[0].Priority = "urgent" }},
		{"confidence out of range", func(r *insightResponse) { r.Insights[2].Confidence = 1.5 }},
		{"score out of range", func(r *insightResponse) { r.HealthScore = 140 }},
		{"unknown potential", func(r *insightResponse) { r.GrowthPotential = "Stratospheric" }},
		{"quality drift", func(r *insightResponse) { r.QualityScore = 10 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := validInsightResponse()
			tc.mutate(resp)
			if err := validateInsightResponse(resp, derived); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNormalizeSteps(t *testing.T) {
	got := normalizeSteps([]string{"a", " ", "b", "c", "d"})
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("normalizeSteps = %v, want the first three non-blank steps", got)
	}

	got = normalizeSteps([]string{"only one"})
	if len(got) != 3 || got[0] != "only one" {
		t.Fatalf("normalizeSteps = %v, want padding up to 3", got)
	}
	for i, step := range got {
		if strings.TrimSpace(step) == "" {
			t.Fatalf("step %d is blank after padding: %v", i, got)
		}
	}
}

func TestRuleBasedInsightsBranches(t *testing.T) {
	viral := &domain.MetricsReport{
		ViralRatio:       120,
		ContentDiversity: 80,
		OptimalLength:    "Medium (8-15 minutes)",
		Engagement: domain.EngagementSummary{
			AvgEngagementRate: 6,
			TopVideo:          &domain.Video{Title: "The big one", Views: 1_000_000},
		},
	}
	insights := ruleBasedInsights(viral, domain.Channel{SubscriberCount: 8_000})
	if len(insights) != 3 {
		t.Fatalf("got %d insights, want 3", len(insights))
	}
	if insights[0].Type != domain.InsightGrowthOpportunity || !strings.Contains(insights[0].Description, "viral") {
		t.Fatalf("first insight = %+v, want the viral-potential angle", insights[0])
	}
	for i, insight := range insights {
		if len(insight.Steps) != 3 {
			t.Fatalf("insight %d has %d steps, want 3", i, len(insight.Steps))
		}
		if insight.Confidence <= 0 || insight.Confidence > 1 {
			t.Fatalf("insight %d confidence %v out of range", i, insight.Confidence)
		}
	}

	quiet := &domain.MetricsReport{
		ViralRatio:       0.5,
		ContentDiversity: 30,
		Engagement:       domain.EngagementSummary{AvgEngagementRate: 1.2},
	}
	insights = ruleBasedInsights(quiet, domain.Channel{SubscriberCount: 300})
	if len(insights) != 3 {
		t.Fatalf("got %d insights, want 3", len(insights))
	}
	if insights[1].Type != domain.InsightEngagementBoost || !strings.Contains(insights[1].Description, "below") {
		t.Fatalf("second insight = %+v, want the low-engagement angle", insights[1])
	}
}

func TestRuleBasedRecommendationsAlwaysThree(t *testing.T) {
	healthy := &domain.MetricsReport{HealthScore: 90, ContentDiversity: 90}
	recs := ruleBasedRecommendations(healthy, domain.Channel{SubscriberCount: 2_000_000})
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.Type == "" || rec.Title == "" || rec.Description == "" || rec.Priority == "" {
			t.Fatalf("recommendation %d incomplete: %+v", i, rec)
		}
		if len(rec.Steps) != 3 {
			t.Fatalf("recommendation %d has %d steps, want 3", i, len(rec.Steps))
		}
	}
}
