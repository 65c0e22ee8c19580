package domain

import "time"

// DataSource labels where a report's numbers came from.
type DataSource string

const (
	SourceLiveAPI  DataSource = "youtube_api_v3"
	SourceSnapshot DataSource = "cached_7day"
	SourceFallback DataSource = "fallback"
)

// CategoryScore is one inferred content category with its relevance score.
type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// EngagementSummary aggregates per-video engagement into channel-level
// figures. Every field is zero for an empty collection.
type EngagementSummary struct {
	TotalViews            uint64  `json:"total_views"`
	TotalLikes            uint64  `json:"total_likes"`
	TotalComments         uint64  `json:"total_comments"`
	AvgEngagementRate     float64 `json:"avg_engagement_rate"`
	AvgViews              float64 `json:"avg_views"`
	AvgLikes              float64 `json:"avg_likes"`
	AvgComments           float64 `json:"avg_comments"`
	ViewsStdDev           float64 `json:"views_std_dev"`
	EngagementStdDev      float64 `json:"engagement_std_dev"`
	UploadConsistency     float64 `json:"upload_consistency"`
	EngagementConsistency float64 `json:"engagement_consistency"`
	TopVideo              *Video  `json:"top_video,omitempty"`
}

// PublishingPattern summarizes upload cadence.
type PublishingPattern struct {
	Frequency           string  `json:"frequency"`
	AvgDaysBetween      float64 `json:"avg_days_between"`
	ScheduleConsistency float64 `json:"schedule_consistency"`
}

// GrowthPrediction projects subscriber growth from the derived scores.
type GrowthPrediction struct {
	MonthlyRatePct float64  `json:"monthly_rate_pct"`
	ThreeMonth     uint64   `json:"three_month"`
	SixMonth       uint64   `json:"six_month"`
	TwelveMonth    uint64   `json:"twelve_month"`
	Confidence     float64  `json:"confidence"`
	Drivers        []string `json:"drivers,omitempty"`
}

// GrowthMetrics are per-day and per-subscriber ratios.
type GrowthMetrics struct {
	ViewsPerSubscriber float64 `json:"views_per_subscriber"`
	SubscribersPerDay  float64 `json:"subscribers_per_day"`
	ViewsPerDay        float64 `json:"views_per_day"`
	EngagementVelocity float64 `json:"engagement_velocity"`
}

// Demographics is the inferred (not measured) audience profile.
type Demographics struct {
	AgeGroups   map[string]int `json:"age_groups"`
	GenderRatio map[string]int `json:"gender_ratio"`
	Geographic  map[string]int `json:"geographic_distribution"`
	Interests   []string       `json:"interests"`
}

// Insight type tags.
const (
	InsightGrowthOpportunity = "growth_opportunity"
	InsightEngagementBoost   = "engagement_boost"
	InsightContentStrategy   = "content_strategy"
)

// Recommendation type tags.
const (
	RecFoundation      = "foundation"
	RecContentStrategy = "content_strategy"
	RecOptimization    = "optimization"
	RecGeneral         = "general"
)

// Priority levels shared by insights and recommendations.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var (
	InsightTypes        = []string{InsightGrowthOpportunity, InsightEngagementBoost, InsightContentStrategy}
	RecommendationTypes = []string{RecFoundation, RecContentStrategy, RecOptimization, RecGeneral}
	Priorities          = []string{PriorityHigh, PriorityMedium, PriorityLow}
)

// Insight is one narrative observation with a confidence in [0,1] and
// exactly three concrete action steps.
type Insight struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Confidence  float64  `json:"confidence"`
	Steps       []string `json:"actionable_steps"`
}

// Recommendation is one actionable suggestion with exactly three steps.
type Recommendation struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Steps       []string `json:"actionable_steps"`
}

// GenerationInfo records how the insight section was produced.
type GenerationInfo struct {
	Provider     string `json:"provider"`
	Model        string `json:"model,omitempty"`
	UsedFallback bool   `json:"used_fallback"`
	RuleBased    bool   `json:"rule_based"`
}

// MetricsReport is the full output of the derivation engine. Every field is
// computed locally from channel and video statistics.
type MetricsReport struct {
	Engagement         EngagementSummary `json:"engagement"`
	ViewTrend          string            `json:"view_trend"`
	ContentVelocity    float64           `json:"content_velocity"`
	Publishing         PublishingPattern `json:"publishing"`
	Categories         []CategoryScore   `json:"categories,omitempty"`
	ContentDiversity   float64           `json:"content_diversity"`
	ContentGaps        []string          `json:"content_gaps,omitempty"`
	ContentFreshness   float64           `json:"content_freshness"`
	TrendingAlignment  float64           `json:"trending_alignment"`
	TitleOptimization  float64           `json:"title_optimization"`
	OptimalLength      string            `json:"optimal_length"`
	EstimatedRetention float64           `json:"estimated_retention"`

	ChannelScale          string  `json:"channel_scale"`
	ViralRatio            float64 `json:"viral_ratio"`
	HealthScore           float64 `json:"health_score"`
	QualityScore          float64 `json:"quality_score"`
	GrowthPotential       string  `json:"growth_potential"`
	PerformanceTier       string  `json:"performance_tier"`
	AudienceLoyalty       float64 `json:"audience_loyalty"`
	AlgorithmFavorability float64 `json:"algorithm_favorability"`
	EngagementHealth      string  `json:"engagement_health"`

	Prediction GrowthPrediction `json:"prediction"`
	Growth     GrowthMetrics    `json:"growth"`
}

// Report is the complete analysis artifact for one channel.
type Report struct {
	Channel         Channel          `json:"channel"`
	GeneratedAt     time.Time        `json:"generated_at"`
	DataSource      DataSource       `json:"data_source"`
	Metrics         MetricsReport    `json:"metrics"`
	Demographics    Demographics     `json:"demographics"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Generation      GenerationInfo   `json:"generation"`
	VideosAnalyzed  int              `json:"videos_analyzed"`
}
