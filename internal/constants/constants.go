package constants

import "time"

var CacheTTL = struct {
	AnalysisReport time.Duration
	ChannelSearch  time.Duration
	ResolvedHandle time.Duration
	SnapshotMaxAge time.Duration
}{
	AnalysisReport: 30 * time.Minute,
	ChannelSearch:  10 * time.Minute,
	ResolvedHandle: 24 * time.Hour,
	SnapshotMaxAge: 7 * 24 * time.Hour,
}

var RetryConfig = struct {
	MaxAttemptsPerKey int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	Jitter            time.Duration
	KeyPoolCooldown   time.Duration
}{
	MaxAttemptsPerKey: 3,
	BaseDelay:         1 * time.Second,
	MaxDelay:          8 * time.Second,
	Jitter:            250 * time.Millisecond,
	KeyPoolCooldown:   60 * time.Second,
}

var PostgresConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
	ConnectTimeout:  5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var YouTubeConfig = struct {
	RequestTimeout    time.Duration
	PlaylistPageSize  int64
	MaxVideoIDs       int
	DetailBatchSize   int
	BatchPause        time.Duration
	DetailConcurrency int
	SearchMaxResults  int64
	RecentWindow      int
}{
	RequestTimeout:    30 * time.Second,
	PlaylistPageSize:  50,
	MaxVideoIDs:       200,
	DetailBatchSize:   20,
	BatchPause:        500 * time.Millisecond,
	DetailConcurrency: 3,
	SearchMaxResults:  10,
	RecentWindow:      30,
}

var LLMConfig = struct {
	GroqBaseURL             string
	GroqModel               string
	GeminiModel             string
	Temperature             float32
	InsightMaxTokens        int
	RecommendationMaxTokens int
	RequestTimeout          time.Duration
	MinInsights             int
}{
	GroqBaseURL:             "https://api.groq.com/openai/v1",
	GroqModel:               "llama-3.1-8b-instant",
	GeminiModel:             "gemini-2.5-flash",
	Temperature:             0.7,
	InsightMaxTokens:        1500,
	RecommendationMaxTokens: 2000,
	RequestTimeout:          45 * time.Second,
	MinInsights:             3,
}

var ScoreBounds = struct {
	Min            float64
	Max            float64
	ConsistencyMin float64
	ConsistencyMax float64
	MaxMonthlyRate float64
	MaxConfidence  float64
}{
	Min:            0,
	Max:            100,
	ConsistencyMin: 20,
	ConsistencyMax: 95,
	MaxMonthlyRate: 15,
	MaxConfidence:  0.9,
}
