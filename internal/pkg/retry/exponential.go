package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/scynett/momopay/internal/pkg/logger"
)

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	Attempts   int           // Total attempts including the first call
	BaseDelay  time.Duration // Delay before the second attempt
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
	// Retryable decides whether err is worth another attempt. Nil retries everything.
	Retryable func(err error) bool
}

// DefaultConfig mirrors the gateway defaults: three attempts starting at one second
func DefaultConfig() Config {
	return Config{
		Attempts:   3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Retrier runs a function with exponential backoff between attempts
type Retrier struct {
	name   string
	config Config
}

// New creates a retrier. name is attached to every log line.
func New(name string, config Config) *Retrier {
	if config.Attempts < 1 {
		config.Attempts = 1
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	return &Retrier{name: name, config: config}
}

// Execute calls fn until it succeeds, returns a non-retryable error,
// the attempts are exhausted or ctx is done.
func (r *Retrier) Execute(ctx context.Context, fn RetryableFunc) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Call succeeded after retries",
					logger.String("name", r.name),
					logger.Int("attempt", attempt))
			}
			return nil
		}
		lastErr = err

		if r.config.Retryable != nil && !r.config.Retryable(err) {
			return err
		}
		if attempt == r.config.Attempts {
			break
		}

		delay := r.delay(attempt)
		logger.Warn("Call failed, retrying",
			logger.String("name", r.name),
			logger.Err(err),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if r.config.Attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("retry limit exceeded after %d attempts: %w", r.config.Attempts, lastErr)
}

// delay returns the wait after the given 1-based attempt
func (r *Retrier) delay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if r.config.MaxDelay > 0 && delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		delay += delay * 0.1 * rand.Float64()
	}
	return time.Duration(delay)
}
