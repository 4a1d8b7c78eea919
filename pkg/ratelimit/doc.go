// Package ratelimit keeps ghbot inside GitHub's request budget.
//
// Two independent mechanisms live here:
//
// Pacer:
//   - client-side token bucket (golang.org/x/time/rate) applied to every
//     HTTP request by the GitHub transport
//   - configured as requests per minute plus a burst size
//
// QuotaGate:
//   - consults the server-side budget from GET /rate_limit before each
//     batch item
//   - when remaining <= threshold it sleeps until the reset time plus a
//     buffer, then re-reads the budget once
//   - a failed read is logged and never blocks
//
// Usage:
//
//	pacer := ratelimit.NewPacer(60, 10)
//	gate := ratelimit.NewQuotaGate(client, 0, time.Second, log)
//	if err := gate.CheckAndWait(ctx); err != nil {
//	    return err // context cancelled
//	}
package ratelimit
