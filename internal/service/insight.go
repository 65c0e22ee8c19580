package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/domain"
	"github.com/miru/channelpulse-go/internal/metrics"
	"github.com/miru/channelpulse-go/internal/prompt"
	"github.com/miru/channelpulse-go/internal/util"
	"go.uber.org/zap"
)

// scoreTolerance bounds how far a model-echoed score may drift from the
// locally derived one before the response is rejected.
const scoreTolerance = 20.0

const maxGenerationAttempts = 2

// insightGenerator is the slice of ModelManager the insight service needs.
type insightGenerator interface {
	HasProvider() bool
	GenerateJSON(ctx context.Context, prompt string, dest any, opts *GenerateOptions) (*GenerateMetadata, error)
}

// InsightService turns a derived metrics report into narrative insights and
// recommendations, via the model chain when available and deterministic
// rules otherwise.
type InsightService struct {
	models insightGenerator
	logger *zap.Logger
}

func NewInsightService(models insightGenerator, logger *zap.Logger) (*InsightService, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &InsightService{
		models: models,
		logger: logger,
	}, nil
}

type insightResponse struct {
	HealthScore     float64          `json:"health_score"`
	QualityScore    float64          `json:"quality_score"`
	GrowthPotential string           `json:"growth_potential"`
	Insights        []domain.Insight `json:"insights"`
}

type recommendationResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// Enrich fills the report's insights, recommendations and generation
// metadata in place. It never fails: when no provider is configured or
// every generation attempt produces an invalid response, the rule-based
// templates take over.
func (s *InsightService) Enrich(ctx context.Context, report *domain.Report) {
	if s.models == nil || !s.models.HasProvider() {
		s.applyRuleBased(report)
		return
	}

	meta, err := s.generateInsights(ctx, report)
	if err != nil {
		s.logger.Warn("Model insight generation failed, using rule-based output",
			zap.String("channel", report.Channel.ID),
			zap.Error(err))
		s.applyRuleBased(report)
		return
	}

	if err := s.generateRecommendations(ctx, report); err != nil {
		s.logger.Warn("Model recommendation generation failed, using rule-based recommendations",
			zap.String("channel", report.Channel.ID),
			zap.Error(err))
		report.Recommendations = ruleBasedRecommendations(&report.Metrics, report.Channel)
	}

	report.Generation = domain.GenerationInfo{
		Provider:     meta.Provider,
		Model:        meta.Model,
		UsedFallback: meta.UsedFallback,
	}
}

func (s *InsightService) generateInsights(ctx context.Context, report *domain.Report) (*GenerateMetadata, error) {
	data := prompt.InsightPromptData{
		ChannelTitle:    report.Channel.DisplayName(),
		Subscribers:     report.Channel.SubscriberCount,
		TotalViews:      report.Channel.ViewCount,
		VideosAnalyzed:  report.VideosAnalyzed,
		EngagementRate:  report.Metrics.Engagement.AvgEngagementRate,
		Consistency:     report.Metrics.Engagement.EngagementConsistency,
		Diversity:       report.Metrics.ContentDiversity,
		ViralRatio:      report.Metrics.ViralRatio,
		HealthScore:     report.Metrics.HealthScore,
		QualityScore:    report.Metrics.QualityScore,
		GrowthPotential: report.Metrics.GrowthPotential,
		ViewTrend:       report.Metrics.ViewTrend,
		ChannelScale:    report.Metrics.ChannelScale,
		TopCategories:   categoryNames(report.Metrics.Categories),
	}
	promptText := prompt.BuildInsightPrompt(data)
	opts := &GenerateOptions{MaxOutputTokens: constants.LLMConfig.InsightMaxTokens}

	var lastErr error
	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		var resp insightResponse
		meta, err := s.models.GenerateJSON(ctx, promptText, &resp, opts)
		if err != nil {
			return nil, err
		}

		if err := validateInsightResponse(&resp, &report.Metrics); err != nil {
			lastErr = err
			s.logger.Warn("Rejected model insight response",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		// Always exactly three, whatever the model produced
		insights := resp.Insights[:3]
		for i := range insights {
			insights[i].Steps = normalizeSteps(insights[i].Steps)
		}
		report.Insights = insights
		return meta, nil
	}

	return nil, lastErr
}

func (s *InsightService) generateRecommendations(ctx context.Context, report *domain.Report) error {
	data := prompt.RecommendationPromptData{
		ChannelTitle:      report.Channel.DisplayName(),
		Subscribers:       report.Channel.SubscriberCount,
		HealthScore:       report.Metrics.HealthScore,
		EngagementRate:    report.Metrics.Engagement.AvgEngagementRate,
		Diversity:         report.Metrics.ContentDiversity,
		ContentGaps:       joinOrNone(report.Metrics.ContentGaps),
		OptimalLength:     report.Metrics.OptimalLength,
		PublishingCadence: report.Metrics.Publishing.Frequency,
	}
	promptText := prompt.BuildRecommendationPrompt(data)
	opts := &GenerateOptions{MaxOutputTokens: constants.LLMConfig.RecommendationMaxTokens}

	var resp recommendationResponse
	if _, err := s.models.GenerateJSON(ctx, promptText, &resp, opts); err != nil {
		return err
	}

	recs := make([]domain.Recommendation, 0, 3)
	for _, rec := range resp.Recommendations {
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		rec.Type = normalizeTag(rec.Type, domain.RecommendationTypes, domain.RecGeneral)
		rec.Priority = normalizeTag(rec.Priority, domain.Priorities, domain.PriorityMedium)
		rec.Steps = normalizeSteps(rec.Steps)
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return fmt.Errorf("model returned no usable recommendations")
	}

	report.Recommendations = padRecommendations(recs)
	return nil
}

func (s *InsightService) applyRuleBased(report *domain.Report) {
	report.Insights = ruleBasedInsights(&report.Metrics, report.Channel)
	report.Recommendations = ruleBasedRecommendations(&report.Metrics, report.Channel)
	report.Generation = domain.GenerationInfo{
		Provider:  "rules",
		RuleBased: true,
	}
}

func validateInsightResponse(resp *insightResponse, derived *domain.MetricsReport) error {
	if len(resp.Insights) < constants.LLMConfig.MinInsights {
		return fmt.Errorf("got %d insights, need at least %d", len(resp.Insights), constants.LLMConfig.MinInsights)
	}
	for i := range resp.Insights {
		insight := &resp.Insights[i]
		if strings.TrimSpace(insight.Title) == "" || strings.TrimSpace(insight.Description) == "" {
			return fmt.Errorf("insight %d has a blank title or description", i)
		}
		insight.Type = normalizeTag(insight.Type, domain.InsightTypes, "")
		if insight.Type == "" {
			return fmt.Errorf("insight %d has an unknown type tag", i)
		}
		insight.Priority = normalizeTag(insight.Priority, domain.Priorities, "")
		if insight.Priority == "" {
			return fmt.Errorf("insight %d has an unknown priority", i)
		}
		if insight.Confidence < 0 || insight.Confidence > 1 {
			return fmt.Errorf("insight %d confidence %.2f out of range", i, insight.Confidence)
		}
	}
	if resp.HealthScore < constants.ScoreBounds.Min || resp.HealthScore > constants.ScoreBounds.Max {
		return fmt.Errorf("health score %.1f out of range", resp.HealthScore)
	}
	if resp.QualityScore < constants.ScoreBounds.Min || resp.QualityScore > constants.ScoreBounds.Max {
		return fmt.Errorf("quality score %.1f out of range", resp.QualityScore)
	}
	if !util.Contains(metrics.GrowthPotentials, resp.GrowthPotential) {
		return fmt.Errorf("unknown growth potential %q", resp.GrowthPotential)
	}
	if diff := resp.HealthScore - derived.HealthScore; diff > scoreTolerance || diff < -scoreTolerance {
		return fmt.Errorf("health score %.1f drifted from derived %.1f", resp.HealthScore, derived.HealthScore)
	}
	if diff := resp.QualityScore - derived.QualityScore; diff > scoreTolerance || diff < -scoreTolerance {
		return fmt.Errorf("quality score %.1f drifted from derived %.1f", resp.QualityScore, derived.QualityScore)
	}
	return nil
}

// normalizeTag lowercases a model-emitted tag and checks it against the
// allowed vocabulary, substituting fallback when it doesn't fit.
func normalizeTag(tag string, allowed []string, fallback string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if util.Contains(allowed, tag) {
		return tag
	}
	return fallback
}

var genericSteps = []string{
	"Review channel analytics weekly",
	"Keep the upload schedule consistent",
	"Act on audience feedback from comments",
}

// normalizeSteps trims a step list to exactly three non-blank entries,
// padding from the generic list when the model underproduces.
func normalizeSteps(steps []string) []string {
	out := make([]string, 0, 3)
	for _, step := range steps {
		if strings.TrimSpace(step) == "" {
			continue
		}
		out = append(out, step)
		if len(out) == 3 {
			return out
		}
	}
	for _, generic := range genericSteps {
		if len(out) == 3 {
			break
		}
		if util.Contains(out, generic) {
			continue
		}
		out = append(out, generic)
	}
	return out
}

// ruleBasedInsights produces exactly three insights from the derived
// metrics: one on viral potential, one on engagement, one on content range.
func ruleBasedInsights(m *domain.MetricsReport, ch domain.Channel) []domain.Insight {
	insights := make([]domain.Insight, 0, 3)

	if m.ViralRatio > 50 {
		top := "your top video"
		if m.Engagement.TopVideo != nil && m.Engagement.TopVideo.Title != "" {
			top = fmt.Sprintf("%q", m.Engagement.TopVideo.Title)
		}
		insights = append(insights, domain.Insight{
			Type:        domain.InsightGrowthOpportunity,
			Title:       "Strong Viral Potential",
			Description: fmt.Sprintf("Your top video reached %.0fx your subscriber count, a sign of strong viral appeal to audiences beyond your subscribers.", m.ViralRatio),
			Priority:    domain.PriorityHigh,
			Confidence:  0.95,
			Steps: []string{
				fmt.Sprintf("Study why %s broke out and replicate its format", top),
				"Feature that video in your channel trailer and pinned comment",
				"Add strong subscribe calls-to-action in similar videos",
			},
		})
	} else {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightGrowthOpportunity,
			Title:       "Build Your Audience Foundation",
			Description: fmt.Sprintf("With %d subscribers, focus on establishing channel identity and earning initial audience trust.", ch.SubscriberCount),
			Priority:    domain.PriorityHigh,
			Confidence:  0.9,
			Steps: []string{
				"Hold a consistent upload schedule",
				"Engage with every comment",
				"Tighten video titles, descriptions and tags",
			},
		})
	}

	if m.Engagement.AvgEngagementRate < 4 {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightEngagementBoost,
			Title:       "Improve Audience Engagement",
			Description: fmt.Sprintf("Your engagement rate of %.1f%% is below where it should be for your scale.", m.Engagement.AvgEngagementRate),
			Priority:    domain.PriorityHigh,
			Confidence:  0.88,
			Steps: []string{
				"Add clear calls-to-action in intros and outros",
				"Create interactive content like polls and Q&As",
				"Reply to comments within a day",
			},
		})
	} else {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightEngagementBoost,
			Title:       "Maintain Strong Engagement",
			Description: fmt.Sprintf("Your %.1f%% engagement rate is a solid base for growth.", m.Engagement.AvgEngagementRate),
			Priority:    domain.PriorityMedium,
			Confidence:  0.8,
			Steps: []string{
				"Keep the interaction loop with your regulars going",
				"Experiment with new interactive formats",
				"Check retention metrics weekly",
			},
		})
	}

	if m.ContentDiversity < 60 {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightContentStrategy,
			Title:       "Widen Your Content Range",
			Description: fmt.Sprintf("Content diversity sits at %.0f. A broader mix would widen your reachable audience.", m.ContentDiversity),
			Priority:    domain.PriorityMedium,
			Confidence:  0.8,
			Steps: []string{
				"Add a new content category each month",
				"Test a format you have not tried yet",
				"Survey your audience for content preferences",
			},
		})
	} else {
		insights = append(insights, domain.Insight{
			Type:        domain.InsightContentStrategy,
			Title:       "Double Down on What Works",
			Description: fmt.Sprintf("Content mix is healthy at %.0f diversity. Your %s format performs best for retention.", m.ContentDiversity, strings.ToLower(m.OptimalLength)),
			Priority:    domain.PriorityMedium,
			Confidence:  0.75,
			Steps: []string{
				fmt.Sprintf("Keep the %s format for new videos", strings.ToLower(m.OptimalLength)),
				"Invest in strong openings (first 15 seconds)",
				"Build series to encourage binge-watching",
			},
		})
	}

	return insights
}

// ruleBasedRecommendations produces exactly three recommendations, padding
// with a generic entry when fewer rules match.
func ruleBasedRecommendations(m *domain.MetricsReport, ch domain.Channel) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, 3)

	if ch.SubscriberCount < 1000 {
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecFoundation,
			Title:       "Build Audience Foundation",
			Description: "Establish your channel identity and earn initial audience trust before pushing for reach.",
			Priority:    domain.PriorityHigh,
			Steps: []string{
				"Define a clear channel niche and value proposition",
				"Produce 5-10 pillar videos around that niche",
				"Engage with every comment for the first month",
			},
		})
	}
	if m.ContentDiversity < 60 {
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecContentStrategy,
			Title:       "Diversify the Content Mix",
			Description: "Expand your content range to attract wider audience segments.",
			Priority:    domain.PriorityMedium,
			Steps: []string{
				"Add one new content category each month",
				"Test a different video format each cycle",
				"Analyze competitor content strategies",
			},
		})
	}
	if m.HealthScore < 60 {
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecOptimization,
			Title:       "Improve Core Metrics",
			Description: "Fix fundamental channel metrics before aggressive growth pushes.",
			Priority:    domain.PriorityHigh,
			Steps: []string{
				"Tighten pacing and editing to lift retention",
				"Fix audience drop-off points",
				"Hold a consistent upload schedule",
			},
		})
	}

	return padRecommendations(recs)
}

func padRecommendations(recs []domain.Recommendation) []domain.Recommendation {
	for len(recs) < 3 {
		recs = append(recs, domain.Recommendation{
			Type:        domain.RecGeneral,
			Title:       "Continue Strategic Growth",
			Description: "Maintain consistent content quality and audience engagement.",
			Priority:    domain.PriorityMedium,
			Steps:       append([]string(nil), genericSteps...),
		})
	}
	return recs[:3]
}

func categoryNames(categories []domain.CategoryScore) string {
	if len(categories) == 0 {
		return "none detected"
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
