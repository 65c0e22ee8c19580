package service

// GenerateMetadata contains metadata about one model generation
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for model generation
type GenerateOptions struct {
	Model           string
	JSONMode        bool
	Temperature     float32
	MaxOutputTokens int
}

// ProviderResult is the raw text output of one provider call
type ProviderResult struct {
	Text  string
	Model string
}
