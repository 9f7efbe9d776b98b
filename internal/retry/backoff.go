package retry

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config configures retry behavior with exponential backoff.
type Config struct {
	MaxRetries int           `json:"max_retries"` // Maximum number of retry attempts (default: 3)
	BaseDelay  time.Duration `json:"base_delay"`  // Base delay between retries (default: 1s)
	MaxDelay   time.Duration `json:"max_delay"`   // Maximum delay between retries (default: 30s)
	Multiplier float64       `json:"multiplier"`  // Exponential backoff multiplier (default: 2.0)
	Jitter     bool          `json:"jitter"`      // Add random jitter to prevent thundering herd (default: true)
}

// DefaultConfig returns a retry configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Do executes op with exponential backoff. It stops on success, on a
// non-retryable error (as reported by retryable), when attempts are
// exhausted, or when ctx is cancelled. The last error is returned.
func Do(ctx context.Context, cfg Config, log zerolog.Logger, retryable func(error) bool, op func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("operation succeeded after retry")
			}
			return nil
		}

		if attempt >= cfg.MaxRetries || !retryable(lastErr) {
			return lastErr
		}

		delay := Delay(cfg, attempt)
		log.Warn().
			Err(lastErr).
			Int("attempt", attempt+1).
			Int("max_attempts", cfg.MaxRetries+1).
			Dur("delay", delay).
			Msg("operation failed, backing off")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// Delay calculates the backoff delay for a given attempt number.
func Delay(cfg Config, attempt int) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.Jitter {
		// Up to 10% random jitter in either direction.
		jitterRange := delay * 0.1
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
		if delay < 0 {
			delay = float64(cfg.BaseDelay)
		}
	}

	return time.Duration(delay)
}

// IsTransient reports whether an error is worth retrying: network hiccups
// and upstream 5xx conditions. Client errors never qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	transient := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
		"502",
		"503",
		"504",
		"no such host",
		"network unreachable",
		"broken pipe",
	}
	for _, marker := range transient {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
