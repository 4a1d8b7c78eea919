package logger

import (
	"fmt"
	"time"

	"ghbot/pkg/models"
)

// LogRequest logs one HTTP round trip to the GitHub API
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}

	switch {
	case statusCode == 0:
		l.WarnWithFields("HTTP request failed", fields)
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// LogAction logs the outcome of a follow, unfollow, star or unstar
func LogAction(l Logger, result models.ActionResult) {
	entry := l.WithFields(map[string]interface{}{
		"action": string(result.Kind),
		"target": result.Target,
		"status": result.Status,
	})

	switch {
	case result.Success:
		entry.Info(fmt.Sprintf("%s %s ok", result.Kind, result.Target))
	case result.Err != nil:
		entry.WithError(result.Err).Warn(fmt.Sprintf("%s %s failed", result.Kind, result.Target))
	default:
		entry.Warn(fmt.Sprintf("%s %s failed", result.Kind, result.Target))
	}
}

// LogRateLimit logs a quota gate pause
func LogRateLimit(l Logger, remaining int, resetAt time.Time, wait time.Duration) {
	l.WithFields(map[string]interface{}{
		"remaining": remaining,
		"reset_at":  resetAt,
		"wait":      wait,
	}).Warn("Rate limit reached, sleeping until reset")
}

// LogBatchProgress logs how far a batch run has got
func LogBatchProgress(l Logger, runID string, processed, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(processed) / float64(total) * 100
	}

	l.WithFields(map[string]interface{}{
		"run_id":     runID,
		"processed":  processed,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Debug("Batch progress")
}

// NewNopLogger creates a no-operation logger
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
