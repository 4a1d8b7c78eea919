package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ghbot/pkg/config"
	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/logger"
)

// Operation is a function that might need retrying
type Operation func(ctx context.Context) error

// OperationWithResult is an Operation that also returns a value
type OperationWithResult[T any] func(ctx context.Context) (T, error)

// Config holds retry configuration
type Config struct {
	// MaxAttempts counts the first try; 0 means unlimited
	MaxAttempts int
	// Backoff is used when set, otherwise ErrorBackoff picks per error
	Backoff      BackoffStrategy
	ErrorBackoff *ErrorTypeBackoff
	RetryIf      func(error) bool
	// OnRetry is called before each wait
	OnRetry func(attempt int, err error, delay time.Duration)
	Logger  logger.Logger
}

// FromConfig builds a Config from the retry section of the app config
func FromConfig(cfg config.RetryConfig, log logger.Logger) *Config {
	return &Config{
		MaxAttempts:  cfg.MaxAttempts,
		ErrorBackoff: NewErrorTypeBackoff(cfg.BaseDelay),
		RetryIf:      DefaultRetryIf,
		Logger:       log,
	}
}

// DefaultConfig returns three attempts with error-type backoff from 1s
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		ErrorBackoff: NewErrorTypeBackoff(time.Second),
		RetryIf:      DefaultRetryIf,
	}
}

// DefaultRetryIf retries classified transient errors and unknown errors,
// never cancellation
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		return apierrors.IsRetryable(apiErr.Type)
	}
	return true
}

// Do runs op until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx is done
func Do(ctx context.Context, cfg *Config, op Operation) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.DebugWithFields("Operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !retryIf(err) {
			log.DebugWithFields("Error is not retryable", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			log.ErrorWithFields("Max retry attempts exceeded", map[string]interface{}{
				"attempts":   attempt,
				"last_error": err.Error(),
			})
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		delay := cfg.delayFor(attempt, err)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		log.WarnWithFields("Retrying operation", map[string]interface{}{
			"attempt":    attempt,
			"next_delay": delay.String(),
			"error":      err.Error(),
			"error_type": string(apierrors.TypeOf(err)),
		})

		if err := Wait(ctx, delay); err != nil {
			return err
		}
	}
}

// DoWithResult is Do for operations that produce a value
func DoWithResult[T any](ctx context.Context, cfg *Config, op OperationWithResult[T]) (T, error) {
	var result T
	err := Do(ctx, cfg, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

func (c *Config) delayFor(attempt int, err error) time.Duration {
	if c.Backoff != nil {
		return c.Backoff.NextDelay(attempt)
	}
	if c.ErrorBackoff != nil {
		return c.ErrorBackoff.For(err).NextDelay(attempt)
	}
	return 0
}
