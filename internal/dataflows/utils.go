package dataflows

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig configures retry behavior for upstream calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      bool
}

// DefaultRetryConfig returns the retry policy used for tool calls:
// two total attempts with a jittered exponential delay starting at 500ms.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 2,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// WithRetry executes fn until it succeeds or the attempt budget is spent.
// It returns the number of attempts made alongside the final error.
func WithRetry(ctx context.Context, config *RetryConfig, fn func() error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := config.BaseDelay
			for i := 1; i < attempt-1; i++ {
				delay = time.Duration(float64(delay) * config.Multiplier)
			}
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
			if config.Jitter {
				delay += time.Duration(rand.Int63n(int64(delay) / 2))
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return attempt - 1, ctx.Err()
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return attempt, nil
	}

	return config.MaxAttempts, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ValidateSymbol checks that a ticker symbol has a plausible format.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts a symbol to the canonical uppercase form.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}
