package ratelimit

import (
	"context"
	"time"

	"ghbot/pkg/logger"
	"ghbot/pkg/models"
)

// QuotaSource reports the account's remaining API budget
type QuotaSource interface {
	RateLimit(ctx context.Context) (models.QuotaSnapshot, error)
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// QuotaGate blocks callers while the remaining API budget is at or below Threshold
type QuotaGate struct {
	source    QuotaSource
	threshold int
	buffer    time.Duration
	log       logger.Logger

	now    func() time.Time
	sleep  SleepFunc
	onWait func(time.Duration)
}

// GateOption configures a QuotaGate
type GateOption func(*QuotaGate)

// WithClock replaces time.Now
func WithClock(now func() time.Time) GateOption {
	return func(g *QuotaGate) { g.now = now }
}

// WithSleep replaces the context-aware sleep
func WithSleep(sleep SleepFunc) GateOption {
	return func(g *QuotaGate) { g.sleep = sleep }
}

// WithOnWait is called with the computed wait before the gate sleeps
func WithOnWait(fn func(time.Duration)) GateOption {
	return func(g *QuotaGate) { g.onWait = fn }
}

// NewQuotaGate creates a gate that waits until reset plus buffer once remaining <= threshold
func NewQuotaGate(source QuotaSource, threshold int, buffer time.Duration, log logger.Logger, opts ...GateOption) *QuotaGate {
	if log == nil {
		log = logger.NewNopLogger()
	}
	g := &QuotaGate{
		source:    source,
		threshold: threshold,
		buffer:    buffer,
		log:       log,
		now:       time.Now,
		sleep:     Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckAndWait queries the quota and sleeps until the reset time when it is exhausted.
// A failed query never blocks. After a sleep the quota is queried again so
// the caller does not act on a stale count. Only ctx cancellation is returned.
func (g *QuotaGate) CheckAndWait(ctx context.Context) error {
	snap, err := g.source.RateLimit(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.log.WithError(err).Warn("Could not read rate limit, continuing")
		return nil
	}

	if snap.Remaining > g.threshold {
		g.log.DebugWithFields("Rate limit ok", map[string]interface{}{
			"remaining": snap.Remaining,
			"limit":     snap.Limit,
		})
		return nil
	}

	wait := snap.ResetAt.Sub(g.now()) + g.buffer
	if wait < 0 {
		wait = 0
	}
	logger.LogRateLimit(g.log, snap.Remaining, snap.ResetAt, wait)
	if g.onWait != nil {
		g.onWait(wait)
	}

	if err := g.sleep(ctx, wait); err != nil {
		return err
	}

	fresh, err := g.source.RateLimit(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.log.WithError(err).Warn("Could not refresh rate limit after reset")
		return nil
	}
	g.log.InfoWithFields("Rate limit reset", map[string]interface{}{
		"remaining": fresh.Remaining,
		"limit":     fresh.Limit,
	})
	return nil
}
