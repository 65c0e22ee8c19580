package prompt

// InsightPromptData feeds the insight generation prompt.
type InsightPromptData struct {
	ChannelTitle    string
	Subscribers     uint64
	TotalViews      uint64
	VideosAnalyzed  int
	EngagementRate  float64
	Consistency     float64
	Diversity       float64
	ViralRatio      float64
	HealthScore     float64
	QualityScore    float64
	GrowthPotential string
	ViewTrend       string
	ChannelScale    string
	TopCategories   string
}

// RecommendationPromptData feeds the recommendation prompt.
type RecommendationPromptData struct {
	ChannelTitle      string
	Subscribers       uint64
	HealthScore       float64
	EngagementRate    float64
	Diversity         float64
	ContentGaps       string
	OptimalLength     string
	PublishingCadence string
}
