package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v74/github"

	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/logger"
	"ghbot/pkg/models"
	"ghbot/pkg/ratelimit"
)

// Options configures a Client
type Options struct {
	Token     string
	BaseURL   string
	UserAgent string
	PerPage   int
	Timeout   time.Duration
	Limiter   ratelimit.Limiter

	// Base is the underlying transport; http.DefaultTransport when nil
	Base http.RoundTripper
}

// Client is a thin status-reporting wrapper around go-github.
// Every call returns the HTTP status it saw, 0 when no response arrived.
type Client struct {
	gh      *gogithub.Client
	perPage int
	logger  logger.Logger
}

// NewClient creates a GitHub API client
func NewClient(opts Options, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PerPage <= 0 || opts.PerPage > MaxPerPage {
		opts.PerPage = MaxPerPage
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &Transport{
			Base:    opts.Base,
			Token:   opts.Token,
			Limiter: opts.Limiter,
			Log:     log,
		},
	}

	gh := gogithub.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	return &Client{gh: gh, perPage: opts.PerPage, logger: log}, nil
}

// PerPage is the page size used for collection listings
func (c *Client) PerPage() int {
	return c.perPage
}

// FetchPage GETs a path relative to the API root and returns the raw JSON body
func (c *Client) FetchPage(ctx context.Context, path string) (json.RawMessage, int, error) {
	req, err := c.gh.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request for %s: %w", path, err)
	}

	var raw json.RawMessage
	resp, err := c.gh.Do(ctx, req, &raw)
	status := statusOf(resp)
	if err != nil {
		return nil, status, classify(status, path, err)
	}
	return raw, status, nil
}

// Follow follows login. Success is reported by the API as 204 No Content.
func (c *Client) Follow(ctx context.Context, login string) (int, error) {
	resp, err := c.gh.Users.Follow(ctx, login)
	return c.writeResult(resp, err, "follow "+login)
}

// Unfollow stops following login
func (c *Client) Unfollow(ctx context.Context, login string) (int, error) {
	resp, err := c.gh.Users.Unfollow(ctx, login)
	return c.writeResult(resp, err, "unfollow "+login)
}

// Star stars owner/repo
func (c *Client) Star(ctx context.Context, owner, repo string) (int, error) {
	resp, err := c.gh.Activity.Star(ctx, owner, repo)
	return c.writeResult(resp, err, "star "+owner+"/"+repo)
}

// Unstar removes the star from owner/repo
func (c *Client) Unstar(ctx context.Context, owner, repo string) (int, error) {
	resp, err := c.gh.Activity.Unstar(ctx, owner, repo)
	return c.writeResult(resp, err, "unstar "+owner+"/"+repo)
}

func (c *Client) writeResult(resp *gogithub.Response, err error, what string) (int, error) {
	status := statusOf(resp)
	if err != nil {
		return status, classify(status, what, err)
	}
	return status, nil
}

// GetRepo probes owner/repo and returns the status. A 404 is not an error.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (int, error) {
	_, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	status := statusOf(resp)
	if err != nil && status != http.StatusNotFound {
		return status, classify(status, "get repo "+owner+"/"+repo, err)
	}
	return status, nil
}

// ListRepos returns the first page of login's public repositories
func (c *Client) ListRepos(ctx context.Context, login string) ([]models.Repository, int, error) {
	opts := &gogithub.RepositoryListByUserOptions{
		ListOptions: gogithub.ListOptions{PerPage: c.perPage},
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, login, opts)
	status := statusOf(resp)
	if err != nil {
		return nil, status, classify(status, "list repos of "+login, err)
	}
	return convertRepos(repos), status, nil
}

// IsFollowing reports whether login follows target
func (c *Client) IsFollowing(ctx context.Context, login, target string) (bool, int, error) {
	following, resp, err := c.gh.Users.IsFollowing(ctx, login, target)
	status := statusOf(resp)
	if err != nil {
		return false, status, classify(status, fmt.Sprintf("check %s follows %s", login, target), err)
	}
	return following, status, nil
}

// FollowerCount returns login's follower count from GET /users/{login}
func (c *Client) FollowerCount(ctx context.Context, login string) (int, int, error) {
	user, resp, err := c.gh.Users.Get(ctx, login)
	status := statusOf(resp)
	if err != nil {
		return 0, status, classify(status, "get user "+login, err)
	}
	return user.GetFollowers(), status, nil
}

// AuthenticatedLogin resolves the login that owns the token
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	status := statusOf(resp)
	if err != nil {
		return "", classify(status, "get authenticated user", err)
	}
	if user.GetLogin() == "" {
		return "", apierrors.FromStatus(status, "authenticated user has no login")
	}
	return user.GetLogin(), nil
}

// SearchRepos runs a repository search sorted by sort (e.g. "stars")
func (c *Client) SearchRepos(ctx context.Context, query, sort string) ([]models.Repository, int, error) {
	result, resp, err := c.gh.Search.Repositories(ctx, query, &gogithub.SearchOptions{
		Sort:        sort,
		ListOptions: gogithub.ListOptions{PerPage: c.perPage},
	})
	status := statusOf(resp)
	if err != nil {
		return nil, status, classify(status, "search "+query, err)
	}
	return convertRepos(result.Repositories), status, nil
}

// RateLimit returns the core REST quota
func (c *Client) RateLimit(ctx context.Context) (models.QuotaSnapshot, error) {
	limits, resp, err := c.gh.RateLimit.Get(ctx)
	status := statusOf(resp)
	if err != nil {
		return models.QuotaSnapshot{}, classify(status, "rate limit", err)
	}
	if limits == nil || limits.Core == nil {
		return models.QuotaSnapshot{}, apierrors.FromStatus(status, "rate limit response has no core quota")
	}

	return models.QuotaSnapshot{
		Remaining: limits.Core.Remaining,
		Limit:     limits.Core.Limit,
		ResetAt:   limits.Core.Reset.Time,
	}, nil
}

func convertRepos(repos []*gogithub.Repository) []models.Repository {
	out := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		out = append(out, models.Repository{
			Owner: r.GetOwner().GetLogin(),
			Name:  r.GetName(),
			Stars: r.GetStargazersCount(),
		})
	}
	return out
}

func statusOf(resp *gogithub.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

// classify turns a go-github error into an *errors.Error. A 2xx status with
// an error means the body did not decode.
func classify(status int, what string, err error) error {
	if status >= 200 && status < 300 {
		return fmt.Errorf("%s: %w", what, &apierrors.Error{
			Type:    apierrors.ErrorTypeParsing,
			Message: err.Error(),
			Code:    status,
		})
	}
	return fmt.Errorf("%s: %w", what, apierrors.FromStatus(status, err.Error()))
}
