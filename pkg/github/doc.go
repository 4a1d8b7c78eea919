// Package github wraps go-github with the small surface ghbot needs.
//
// Every method reports the HTTP status it received (0 when the request never
// got a response) alongside an *errors.Error, so callers can apply the
// platform's exact success rules, such as "204 means the follow happened".
//
// Requests go through Transport, which adds the token and v3 Accept header,
// waits on a ratelimit.Limiter and logs the round trip.
//
//	client, err := github.NewClient(github.Options{
//	    Token:   cfg.GitHub.Token,
//	    BaseURL: cfg.GitHub.BaseURL,
//	    Limiter: ratelimit.NewPacer(60, 10),
//	}, log)
//	status, err := client.Follow(ctx, "octocat")
package github
