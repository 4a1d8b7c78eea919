package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"ghbot/internal/pool"
	"ghbot/pkg/config"
	"ghbot/pkg/engine"
	"ghbot/pkg/github"
	"ghbot/pkg/logger"
	"ghbot/pkg/models"
	"ghbot/pkg/ratelimit"
	"ghbot/pkg/retry"
	"ghbot/pkg/storage"
)

// ErrNoTrending is returned when the trending search comes back empty
var ErrNoTrending = errors.New("no trending repositories found")

// API is everything the workflows need from GitHub
type API interface {
	engine.PageFetcher
	engine.Actor
	pool.FollowerCounter
	ratelimit.QuotaSource
	PerPage() int
	IsFollowing(ctx context.Context, login, target string) (bool, int, error)
	AuthenticatedLogin(ctx context.Context) (string, error)
	SearchRepos(ctx context.Context, query, sort string) ([]models.Repository, int, error)
}

// Hooks let a front end follow a batch while it runs
type Hooks struct {
	OnStart    func(name string, total int)
	OnResult   func(models.ActionResult)
	OnProgress func(processed, total int)
}

// Bot orchestrates the account-level workflows on top of the engine
type Bot struct {
	api      API
	cfg      *config.Config
	executor *engine.Executor
	gate     engine.Gate
	sleep    ratelimit.SleepFunc
	pick     engine.Picker
	hooks    Hooks
	onWait   func(time.Duration)
	logger   logger.Logger
	login    string
}

// Option configures a Bot
type Option func(*Bot)

// WithGate replaces the quota gate built from config
func WithGate(g engine.Gate) Option {
	return func(b *Bot) { b.gate = g }
}

// WithSleep replaces the sleeper used for delays and quota waits
func WithSleep(s ratelimit.SleepFunc) Option {
	return func(b *Bot) { b.sleep = s }
}

// WithPicker replaces the random choice of repository and trending owner
func WithPicker(p engine.Picker) Option {
	return func(b *Bot) { b.pick = p }
}

// WithHooks installs progress callbacks
func WithHooks(h Hooks) Option {
	return func(b *Bot) { b.hooks = h }
}

// WithOnQuotaWait is called whenever the default quota gate is about to
// sleep. Ignored when WithGate is used.
func WithOnQuotaWait(fn func(time.Duration)) Option {
	return func(b *Bot) { b.onWait = fn }
}

// New creates a Bot over api
func New(cfg *config.Config, api API, log logger.Logger, opts ...Option) *Bot {
	if log == nil {
		log = logger.NewNopLogger()
	}
	b := &Bot{
		api:    api,
		cfg:    cfg,
		sleep:  ratelimit.Sleep,
		pick:   rand.IntN,
		logger: log,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.gate == nil {
		gateOpts := []ratelimit.GateOption{ratelimit.WithSleep(b.sleep)}
		if b.onWait != nil {
			gateOpts = append(gateOpts, ratelimit.WithOnWait(b.onWait))
		}
		b.gate = ratelimit.NewQuotaGate(api, cfg.RateLimit.QuotaThreshold, cfg.RateLimit.QuotaBuffer, log, gateOpts...)
	}
	b.executor = engine.NewExecutor(api, log, engine.WithPicker(b.pick))
	return b
}

// NewFromConfig builds the GitHub client from cfg and wraps it in a Bot.
// A missing token is an error.
func NewFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) (*Bot, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	client, err := github.NewClient(github.Options{
		Token:     cfg.GitHub.Token,
		BaseURL:   cfg.GitHub.BaseURL,
		UserAgent: cfg.GitHub.UserAgent,
		PerPage:   cfg.GitHub.PerPage,
		Limiter:   ratelimit.NewPacer(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return New(cfg, client, log, opts...), nil
}

// Login returns the account the bot acts as: the configured username, or
// the token's owner resolved once via GET /user with retry
func (b *Bot) Login(ctx context.Context) (string, error) {
	if b.login != "" {
		return b.login, nil
	}
	if b.cfg.GitHub.Username != "" {
		b.login = b.cfg.GitHub.Username
		return b.login, nil
	}

	login, err := retry.DoWithResult(ctx, retry.FromConfig(b.cfg.Retry, b.logger),
		func(ctx context.Context) (string, error) {
			return b.api.AuthenticatedLogin(ctx)
		})
	if err != nil {
		return "", fmt.Errorf("failed to resolve authenticated login: %w", err)
	}

	b.logger.WithField("login", login).Info("Resolved authenticated login")
	b.login = login
	return login, nil
}

// QuotaStatus reads the current core rate limit
func (b *Bot) QuotaStatus(ctx context.Context) (models.QuotaSnapshot, error) {
	return b.api.RateLimit(ctx)
}

// Check reports whether user follows target. Both accept the forms
// SanitizeLogin understands (@login, profile URLs).
func (b *Bot) Check(ctx context.Context, user, target string) (bool, error) {
	user, target = github.SanitizeLogin(user), github.SanitizeLogin(target)
	for _, login := range []string{user, target} {
		if !github.IsValidLogin(login) {
			return false, fmt.Errorf("invalid login %q", login)
		}
	}

	follows, status, err := b.api.IsFollowing(ctx, user, target)
	if err != nil {
		return false, err
	}
	if status != http.StatusNoContent && status != http.StatusNotFound {
		return false, fmt.Errorf("unexpected status %d checking %s follows %s", status, user, target)
	}
	return follows, nil
}

func (b *Bot) collectIdentities(ctx context.Context, name string, pageURL engine.PageURL) (engine.Collection[models.Identity], error) {
	c, err := engine.Collect(ctx, b.api, pageURL, engine.DecodeIdentities, b.logger.WithField("collection", name))
	b.logger.InfoWithFields("Collected "+name, map[string]interface{}{
		"count":     len(c.Items),
		"truncated": c.Truncated,
	})
	return c, err
}

func (b *Bot) runOptions(name string, total int) engine.RunOptions {
	if b.hooks.OnStart != nil {
		b.hooks.OnStart(name, total)
	}
	return engine.RunOptions{
		Name:       name,
		Delay:      b.cfg.RateLimit.ActionDelay,
		Gate:       b.gate,
		Sleep:      b.sleep,
		OnResult:   b.hooks.OnResult,
		OnProgress: b.hooks.OnProgress,
		Logger:     b.logger,
	}
}

// UnfollowReport describes one unfollow run
type UnfollowReport struct {
	Following  int
	Followers  int
	Candidates []models.Identity
	// Skipped counts candidates that turned out to follow back on re-check
	Skipped int
	// FollowersTruncated is set when the followers walk stopped early, so
	// some candidates may in fact follow back
	FollowersTruncated bool
	LogPath            string
	Summary            engine.Summary
}

// UnfollowNonReciprocal unfollows every account the user follows that does
// not follow back, appending each successful unfollow to the unfollow log
func (b *Bot) UnfollowNonReciprocal(ctx context.Context) (UnfollowReport, error) {
	var report UnfollowReport

	me, err := b.Login(ctx)
	if err != nil {
		return report, err
	}

	ulog, err := storage.OpenUnfollowLog(b.cfg.Output.UnfollowLog)
	if err != nil {
		return report, err
	}
	report.LogPath = ulog.Path()
	defer b.closeLogged(ulog, "unfollow log", report.LogPath)

	perPage := b.api.PerPage()
	following, err := b.collectIdentities(ctx, "following", func(page int) string {
		return github.FollowingPath(page, perPage)
	})
	if err != nil {
		return report, err
	}
	followers, err := b.collectIdentities(ctx, "followers", func(page int) string {
		return github.FollowersPath(me, page, perPage)
	})
	if err != nil {
		return report, err
	}

	report.Following = len(following.Items)
	report.Followers = len(followers.Items)
	report.FollowersTruncated = followers.Truncated
	report.Candidates = engine.NonReciprocal(following.Items, followers.Items)
	if followers.Truncated {
		b.logger.WarnWithFields("Followers list is incomplete, candidates may include accounts that follow back", map[string]interface{}{
			"followers":  report.Followers,
			"candidates": len(report.Candidates),
		})
	}

	action := func(ctx context.Context, id models.Identity) []models.ActionResult {
		if b.cfg.Engine.VerifyBeforeUnfollow && b.followsBack(ctx, id.Login, me) {
			report.Skipped++
			return nil
		}

		result := b.executor.Unfollow(ctx, id.Login)
		if result.Success {
			if err := ulog.Append(id.Login); err != nil {
				b.logger.WithError(err).WithField("target", id.Login).Error("Failed to record unfollow")
			}
		}
		return []models.ActionResult{result}
	}

	report.Summary, err = engine.RunBatch(ctx, report.Candidates, action, b.runOptions("unfollow", len(report.Candidates)))
	return report, err
}

// closeLogged closes c for a deferred call and logs a failure
func (b *Bot) closeLogged(c io.Closer, what, path string) {
	if err := c.Close(); err != nil {
		b.logger.WithError(err).WithField("path", path).Error("Failed to close " + what)
	}
}

// followsBack re-checks a candidate just before unfollowing. When the check
// itself fails the candidate is kept.
func (b *Bot) followsBack(ctx context.Context, login, me string) bool {
	follows, status, err := b.api.IsFollowing(ctx, login, me)
	if err != nil || (status != http.StatusNoContent && status != http.StatusNotFound) {
		b.logger.WithError(err).WarnWithFields("Could not verify follow-back, skipping", map[string]interface{}{
			"target": login,
			"status": status,
		})
		return true
	}
	if follows {
		b.logger.WithField("target", login).Info("Follows back now, skipping")
	}
	return follows
}

// followAction follows login and, when star is set and the follow worked,
// stars their best repositories
func (b *Bot) followAction(star bool) engine.Action[string] {
	return func(ctx context.Context, login string) []models.ActionResult {
		result := b.executor.Follow(ctx, login)
		results := []models.ActionResult{result}
		if star && result.Success {
			results = append(results, b.executor.StarUserBestRepo(ctx, login)...)
		}
		return results
	}
}

// FollowFollowersOf follows every follower of target
func (b *Bot) FollowFollowersOf(ctx context.Context, target string, star bool) (engine.Summary, error) {
	target = github.SanitizeLogin(target)
	if !github.IsValidLogin(target) {
		return engine.Summary{}, fmt.Errorf("invalid login %q", target)
	}

	perPage := b.api.PerPage()
	followers, err := b.collectIdentities(ctx, "followers of "+target, func(page int) string {
		return github.FollowersPath(target, page, perPage)
	})
	if err != nil {
		return engine.Summary{}, err
	}

	logins := make([]string, len(followers.Items))
	for i, f := range followers.Items {
		logins[i] = f.Login
	}

	return engine.RunBatch(ctx, logins, b.followAction(star), b.runOptions("follow "+target, len(logins)))
}

// FollowRandom follows the owner of a random repository with more than
// minStars stars
func (b *Bot) FollowRandom(ctx context.Context, minStars int, star bool) (string, engine.Summary, error) {
	if err := b.gate.CheckAndWait(ctx); err != nil {
		return "", engine.Summary{}, err
	}

	repos, status, err := b.api.SearchRepos(ctx, github.TrendingQuery(minStars), "stars")
	if err != nil {
		return "", engine.Summary{}, fmt.Errorf("failed to search trending repositories (status %d): %w", status, err)
	}
	if len(repos) == 0 {
		return "", engine.Summary{}, ErrNoTrending
	}

	owner := repos[b.pick(len(repos))].Owner
	b.logger.WithField("owner", owner).Info("Picked trending repository owner")

	opts := b.runOptions("follow random", 1)
	opts.Delay = 0
	summary, err := engine.RunBatch(ctx, []string{owner}, b.followAction(star), opts)
	return owner, summary, err
}

// UnstarAll removes every star. All pages are collected before the first
// unstar so deletions cannot shift later pages.
func (b *Bot) UnstarAll(ctx context.Context) (engine.Summary, error) {
	perPage := b.api.PerPage()
	repos, err := engine.CollectAll(ctx, b.api, func(page int) string {
		return github.StarredPath(page, perPage)
	}, engine.DecodeRepositories, b.logger.WithField("collection", "starred"))
	if err != nil {
		return engine.Summary{}, err
	}
	b.logger.InfoWithFields("Collected starred", map[string]interface{}{"count": len(repos)})

	action := func(ctx context.Context, repo models.Repository) []models.ActionResult {
		return []models.ActionResult{b.executor.Unstar(ctx, repo)}
	}

	opts := b.runOptions("unstar", len(repos))
	opts.Delay = b.cfg.RateLimit.UnstarDelay
	return engine.RunBatch(ctx, repos, action, opts)
}

// TopReport is the result of ranking the following list by followers
type TopReport struct {
	Following      int
	Enriched       int
	Top            []models.Identity
	TotalFollowers int
}

// TopFollowed ranks the accounts the user follows by their follower counts
func (b *Bot) TopFollowed(ctx context.Context, n int) (TopReport, error) {
	var report TopReport

	perPage := b.api.PerPage()
	following, err := b.collectIdentities(ctx, "following", func(page int) string {
		return github.FollowingPath(page, perPage)
	})
	if err != nil {
		return report, err
	}
	report.Following = len(following.Items)

	if err := b.gate.CheckAndWait(ctx); err != nil {
		return report, err
	}

	lookups, err := engine.RunLookups(ctx, b.api, following.Items, b.cfg.Workers(), b.logger)
	if err != nil {
		return report, err
	}
	engine.SortLookups(lookups)

	enriched := engine.EnrichedIdentities(lookups)
	report.Enriched = len(enriched)
	report.Top = engine.TopNByFollowers(enriched, n)
	report.TotalFollowers = engine.TotalFollowers(enriched)

	b.logger.InfoWithFields("Ranked following by followers", map[string]interface{}{
		"following":       report.Following,
		"enriched":        report.Enriched,
		"total_followers": report.TotalFollowers,
	})
	return report, nil
}
