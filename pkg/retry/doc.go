// Package retry provides backoff and retry for transient GitHub API
// failures.
//
// Mutating actions are never retried: a failed follow or star is reported
// and the batch moves on. Retry is reserved for idempotent reads at startup,
// such as resolving the authenticated login.
//
// Error types map to backoff strategies:
//   - network: short exponential backoff
//   - rate_limit: long delays, gentle growth
//   - server_error: moderate exponential backoff
//   - auth and not_found: not retried
//
// Usage:
//
//	login, err := retry.DoWithResult(ctx, retry.FromConfig(cfg.Retry, log),
//	    func(ctx context.Context) (string, error) {
//	        return client.AuthenticatedLogin(ctx)
//	    })
package retry
