package github

import (
	"net/http"
	"time"

	"ghbot/pkg/logger"
	"ghbot/pkg/ratelimit"
)

// Transport injects the token and media type into every request, paces
// requests through a Limiter and logs each round trip.
type Transport struct {
	Base    http.RoundTripper
	Token   string
	Limiter ratelimit.Limiter
	Log     logger.Logger
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())
	if t.Token != "" {
		r.Header.Set("Authorization", "token "+t.Token)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", AcceptHeader)
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(r)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if t.Log != nil {
		logger.LogRequest(t.Log, r.Method, r.URL.RequestURI(), status, time.Since(start))
	}

	return resp, err
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
