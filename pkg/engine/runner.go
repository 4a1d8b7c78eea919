package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ghbot/pkg/logger"
	"ghbot/pkg/models"
	"ghbot/pkg/ratelimit"
)

// Gate is consulted before every batch item
type Gate interface {
	CheckAndWait(ctx context.Context) error
}

// Action applies the batch's operation to one item. It may produce more than
// one result (follow then star) or none (nothing to star).
type Action[T any] func(ctx context.Context, item T) []models.ActionResult

// RunOptions configures RunBatch
type RunOptions struct {
	// Name labels the run in logs
	Name string
	// Delay is slept after every item whatever its outcome
	Delay time.Duration
	// Gate is optional
	Gate Gate
	// Sleep defaults to ratelimit.Sleep
	Sleep ratelimit.SleepFunc
	// OnResult sees every result as it is produced
	OnResult func(models.ActionResult)
	// OnProgress is called after every item
	OnProgress func(processed, total int)
	Logger     logger.Logger
}

// Summary is the accounting for one batch run
type Summary struct {
	RunID     string
	Name      string
	Total     int
	Processed int
	Successes int
	Failures  int
	// Counts holds successes per action kind
	Counts   map[models.ActionKind]int
	Duration time.Duration
}

// Count returns the number of successful actions of kind
func (s Summary) Count(kind models.ActionKind) int {
	return s.Counts[kind]
}

// RunBatch applies action to every item in order, one at a time. Failures
// are counted and never stop the run. The only early exit is ctx
// cancellation, reported with the summary of what was processed.
func RunBatch[T any](ctx context.Context, items []T, action Action[T], opts RunOptions) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = ratelimit.Sleep
	}

	summary := Summary{
		RunID:  uuid.NewString(),
		Name:   opts.Name,
		Total:  len(items),
		Counts: make(map[models.ActionKind]int),
	}
	log = log.WithFields(map[string]interface{}{
		"run_id": summary.RunID,
		"batch":  opts.Name,
	})
	start := time.Now()

	log.InfoWithFields("Batch started", map[string]interface{}{"items": len(items)})

	for _, item := range items {
		if opts.Gate != nil {
			if err := opts.Gate.CheckAndWait(ctx); err != nil {
				return finish(summary, start), err
			}
		}
		if err := ctx.Err(); err != nil {
			return finish(summary, start), err
		}

		for _, result := range action(ctx, item) {
			if result.Success {
				summary.Successes++
				summary.Counts[result.Kind]++
			} else {
				summary.Failures++
			}
			if opts.OnResult != nil {
				opts.OnResult(result)
			}
		}
		summary.Processed++
		logger.LogBatchProgress(log, summary.RunID, summary.Processed, summary.Total)
		if opts.OnProgress != nil {
			opts.OnProgress(summary.Processed, summary.Total)
		}

		if err := sleep(ctx, opts.Delay); err != nil {
			return finish(summary, start), err
		}
	}

	summary = finish(summary, start)
	log.InfoWithFields("Batch finished", map[string]interface{}{
		"processed": summary.Processed,
		"successes": summary.Successes,
		"failures":  summary.Failures,
		"duration":  summary.Duration,
	})
	return summary, nil
}

func finish(s Summary, start time.Time) Summary {
	s.Duration = time.Since(start)
	return s
}
