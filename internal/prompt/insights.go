package prompt

import "fmt"

func BuildInsightPrompt(data InsightPromptData) string {
	return fmt.Sprintf(`You are a YouTube channel growth analyst.
Analyze the channel metrics below and produce strategic insights.

## Channel Metrics:
- Channel: %s
- Subscribers: %d
- Total views: %d
- Videos analyzed: %d
- Channel scale: %s
- Avg engagement rate: %.2f%%
- Performance consistency: %.1f
- Content diversity: %.1f
- Viral ratio: %.1fx
- Channel health score: %.1f
- Content quality score: %.1f
- Growth potential: %s
- View trend: %s
- Top content categories: %s

## Response Format (JSON ONLY):
{
  "health_score": %.1f,
  "quality_score": %.1f,
  "growth_potential": "%s",
  "insights": [
    {
      "type": "growth_opportunity",
      "title": "Short headline for the insight",
      "description": "One or two sentences grounded in the metrics above",
      "priority": "high",
      "confidence": 0.9,
      "actionable_steps": ["First concrete step", "Second step", "Third step"]
    }
  ]
}

**Rules**:
- Return at least 3 insights, each tied to a specific metric
- type must be one of: growth_opportunity, engagement_boost, content_strategy
- priority must be one of: high, medium, low; confidence is 0.0-1.0
- Each insight carries exactly 3 actionable_steps
- Echo health_score, quality_score and growth_potential exactly as given
- growth_potential must be one of: High, Medium-High, Medium, Low-Medium, Low
- Scores are 0-100
- No text outside the JSON object`,
		data.ChannelTitle,
		data.Subscribers,
		data.TotalViews,
		data.VideosAnalyzed,
		data.ChannelScale,
		data.EngagementRate,
		data.Consistency,
		data.Diversity,
		data.ViralRatio,
		data.HealthScore,
		data.QualityScore,
		data.GrowthPotential,
		data.ViewTrend,
		data.TopCategories,
		data.HealthScore,
		data.QualityScore,
		data.GrowthPotential,
	)
}

func BuildRecommendationPrompt(data RecommendationPromptData) string {
	return fmt.Sprintf(`You are a YouTube channel growth analyst.
Produce actionable growth recommendations for the channel below.

## Channel Summary:
- Channel: %s
- Subscribers: %d
- Health score: %.1f
- Avg engagement rate: %.2f%%
- Content diversity: %.1f
- Content gaps: %s
- Optimal video length: %s
- Publishing cadence: %s

## Response Format (JSON ONLY):
{
  "recommendations": [
    {
      "type": "content_strategy",
      "title": "Short headline for the recommendation",
      "description": "What to do and what should improve",
      "priority": "high",
      "actionable_steps": ["First concrete step", "Second step", "Third step"]
    }
  ]
}

**Rules**:
- Return exactly 3 recommendations
- type must be one of: foundation, content_strategy, optimization, general
- priority must be one of: high, medium, low
- Each recommendation carries exactly 3 actionable_steps
- Each step must be specific to this channel's numbers, not generic advice
- No text outside the JSON object`,
		data.ChannelTitle,
		data.Subscribers,
		data.HealthScore,
		data.EngagementRate,
		data.Diversity,
		data.ContentGaps,
		data.OptimalLength,
		data.PublishingCadence,
	)
}
