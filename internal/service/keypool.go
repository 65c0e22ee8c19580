package service

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/miru/channelpulse-go/internal/constants"
	"github.com/miru/channelpulse-go/pkg/errors"
	"go.uber.org/zap"
)

// keyFailureMarkers are the message fragments that, combined with a client
// error status, disqualify a key rather than a single request.
var keyFailureMarkers = []string{"quota", "exceeded", "disabled", "forbidden", "invalid", "key"}

// IsKeyLevelFailure reports whether a response disqualifies the API key for
// the current operation. Quota and auth problems follow the key; anything
// else is a transient request failure.
func IsKeyLevelFailure(statusCode int, message string) bool {
	switch statusCode {
	case 400, 401, 403, 429:
	default:
		return false
	}

	lower := strings.ToLower(message)
	for _, marker := range keyFailureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// KeyClassifier decides whether an error should rotate to the next key
// (true) or be retried on the same key (false).
type KeyClassifier func(err error) bool

// KeyPool rotates through a set of API keys. When every key has been tried
// for an operation without success the pool enters a cooldown before it can
// be used again.
type KeyPool struct {
	name       string
	keys       []string
	classifier KeyClassifier
	logger     *zap.Logger

	mu            sync.Mutex
	index         int
	cooldownUntil time.Time
}

func NewKeyPool(name string, keys []string, classifier KeyClassifier, logger *zap.Logger) (*KeyPool, error) {
	if len(keys) == 0 {
		return nil, errors.NewValidationError("key pool requires at least one key", "keys", name)
	}
	if classifier == nil {
		classifier = func(error) bool { return false }
	}
	return &KeyPool{
		name:       name,
		keys:       keys,
		classifier: classifier,
		logger:     logger,
	}, nil
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}

func (p *KeyPool) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.index]
}

func (p *KeyPool) rotate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = (p.index + 1) % len(p.keys)
}

func (p *KeyPool) cooldownRemaining() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if remaining := time.Until(p.cooldownUntil); remaining > 0 {
		return remaining, true
	}
	return 0, false
}

func (p *KeyPool) startCooldown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cooldownUntil = time.Now().Add(constants.RetryConfig.KeyPoolCooldown)
}

// Execute runs call with each key in rotation until one succeeds. A
// key-level failure moves straight to the next key; transient failures are
// retried on the same key with exponential backoff. When the whole pool is
// exhausted the pool cools down and a KeyRotationError is returned.
func (p *KeyPool) Execute(ctx context.Context, operation string, call func(ctx context.Context, apiKey string) error) error {
	if remaining, cooling := p.cooldownRemaining(); cooling {
		return errors.NewKeyRotationError("key pool in cooldown", 429, map[string]any{
			"pool":        p.name,
			"operation":   operation,
			"retry_after": remaining.String(),
		})
	}

	var lastErr error
	for tried := 0; tried < len(p.keys); tried++ {
		apiKey := p.current()

		for attempt := 0; attempt < constants.RetryConfig.MaxAttemptsPerKey; attempt++ {
			err := call(ctx, apiKey)
			if err == nil {
				return nil
			}
			lastErr = err

			if ctx.Err() != nil {
				return ctx.Err()
			}

			if p.classifier(err) {
				p.logger.Warn("Key disqualified, rotating",
					zap.String("pool", p.name),
					zap.String("operation", operation),
					zap.Int("key_index", tried),
					zap.Error(err),
				)
				break
			}

			if attempt < constants.RetryConfig.MaxAttemptsPerKey-1 {
				delay := computeDelay(attempt)
				p.logger.Warn("Request failed, retrying",
					zap.String("pool", p.name),
					zap.String("operation", operation),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
					zap.Error(err),
				)
				if err := sleepContext(ctx, delay); err != nil {
					return err
				}
			}
		}

		p.rotate()
	}

	p.startCooldown()
	p.logger.Error("All keys exhausted, pool entering cooldown",
		zap.String("pool", p.name),
		zap.String("operation", operation),
		zap.Int("keys", len(p.keys)),
		zap.Error(lastErr),
	)

	kerr := errors.NewKeyRotationError("all API keys exhausted", 429, map[string]any{
		"pool":      p.name,
		"operation": operation,
	})
	kerr.Cause = lastErr
	return kerr
}

// computeDelay computes exponential backoff delay with jitter
func computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	if base > constants.RetryConfig.MaxDelay {
		base = constants.RetryConfig.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(constants.RetryConfig.Jitter)))
	return base + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
