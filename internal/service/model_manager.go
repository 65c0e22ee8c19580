package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/internal/util"
	"github.com/miru/channelpulse-go/pkg/errors"
	"go.uber.org/zap"
)

// ModelManager chains text-generation providers: Gemini primary when
// configured, Groq as fallback. A circuit breaker guards the whole chain.
type ModelManager struct {
	primary        JSONProvider
	fallback       JSONProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	GroqAPIKeys    []string
	EnableFallback bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, "", logger)
	if err != nil {
		return nil, err
	}

	var groq *GroqProvider
	if cfg.EnableFallback || gemini == nil {
		groq, err = NewGroqProvider(cfg.GroqAPIKeys, "", logger)
		if err != nil {
			return nil, err
		}
	}

	mm := &ModelManager{logger: logger}
	switch {
	case gemini != nil && groq != nil:
		mm.primary = gemini
		mm.fallback = groq
		logger.Info("Model chain: Gemini primary, Groq fallback")
	case gemini != nil:
		mm.primary = gemini
		logger.Info("Model chain: Gemini only")
	case groq != nil:
		mm.primary = groq
		logger.Info("Model chain: Groq only")
	default:
		logger.Info("Model chain: no providers configured")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm, nil
}

// HasProvider reports whether any model provider is configured.
func (mm *ModelManager) HasProvider() bool {
	return mm.primary != nil
}

// GenerateJSON asks the provider chain for a JSON response and unmarshals it
// into dest.
func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, dest any, opts *GenerateOptions) (*GenerateMetadata, error) {
	if mm.primary == nil {
		return nil, errors.NewInsightError("no model provider configured", "none", nil)
	}

	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		mm.logger.Error("Model chain unavailable (circuit open)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return nil, errors.NewInsightError("model providers unavailable", mm.primary.Name(), nil)
	}

	var options GenerateOptions
	if opts != nil {
		options = *opts
	}
	options.JSONMode = true

	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, &options)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		metadata := &GenerateMetadata{
			Provider: mm.primary.Name(),
			Model:    primaryResult.Model,
		}
		return mm.decodeJSON(primaryResult.Text, metadata, dest)
	}

	if mm.fallback != nil {
		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, &options)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			metadata := &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}
			return mm.decodeJSON(fallbackResult.Text, metadata, dest)
		}

		mm.circuitBreaker.RecordFailure(0)
		return nil, errors.NewInsightError("all model providers failed", mm.fallback.Name(), fallbackErr)
	}

	mm.circuitBreaker.RecordFailure(0)
	return nil, errors.NewInsightError("model generation failed", mm.primary.Name(), primaryErr)
}

func (mm *ModelManager) decodeJSON(text string, metadata *GenerateMetadata, dest any) (*GenerateMetadata, error) {
	cleaned := extractJSON(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%s returned no JSON payload", metadata.Provider)
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", util.TruncateString(cleaned, 200)),
		)
		return nil, fmt.Errorf("invalid JSON from %s: %w", metadata.Provider, err)
	}

	return metadata, nil
}

// extractJSON strips code fences and returns the first balanced JSON object
// or array in the text.
func extractJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}

	start := strings.IndexAny(cleaned, "{[")
	if start < 0 {
		return ""
	}

	open := cleaned[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return cleaned[start : i+1]
			}
		}
	}

	return ""
}

func (mm *ModelManager) healthCheckPing() bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	if mm.primary != nil && mm.primary.Ping(ctx) {
		return true
	}
	if mm.fallback != nil && mm.fallback.Ping(ctx) {
		return true
	}
	return false
}
