package engine

import (
	"context"
	"math/rand/v2"
	"net/http"

	"ghbot/pkg/logger"
	"ghbot/pkg/models"
)

// Actor performs the mutating calls and the lookups StarUserBestRepo needs
type Actor interface {
	Follow(ctx context.Context, login string) (int, error)
	Unfollow(ctx context.Context, login string) (int, error)
	Star(ctx context.Context, owner, repo string) (int, error)
	Unstar(ctx context.Context, owner, repo string) (int, error)
	GetRepo(ctx context.Context, owner, repo string) (int, error)
	ListRepos(ctx context.Context, login string) ([]models.Repository, int, error)
}

// Picker returns an index in [0, n)
type Picker func(n int) int

// Executor applies one action to one target. It never retries; a failed
// call is reported in the returned ActionResult.
type Executor struct {
	api  Actor
	log  logger.Logger
	pick Picker
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithPicker replaces the random repository picker
func WithPicker(p Picker) ExecutorOption {
	return func(e *Executor) { e.pick = p }
}

// NewExecutor creates an Executor
func NewExecutor(api Actor, log logger.Logger, opts ...ExecutorOption) *Executor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	e := &Executor{api: api, log: log, pick: rand.IntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Follow(ctx context.Context, login string) models.ActionResult {
	status, err := e.api.Follow(ctx, login)
	return e.record(models.ActionFollow, login, status, err)
}

func (e *Executor) Unfollow(ctx context.Context, login string) models.ActionResult {
	status, err := e.api.Unfollow(ctx, login)
	return e.record(models.ActionUnfollow, login, status, err)
}

func (e *Executor) Star(ctx context.Context, repo models.Repository) models.ActionResult {
	status, err := e.api.Star(ctx, repo.Owner, repo.Name)
	return e.record(models.ActionStar, repo.FullName(), status, err)
}

func (e *Executor) Unstar(ctx context.Context, repo models.Repository) models.ActionResult {
	status, err := e.api.Unstar(ctx, repo.Owner, repo.Name)
	return e.record(models.ActionUnstar, repo.FullName(), status, err)
}

// record treats 204 No Content as the only success
func (e *Executor) record(kind models.ActionKind, target string, status int, err error) models.ActionResult {
	result := models.ActionResult{
		Target:  target,
		Kind:    kind,
		Success: status == http.StatusNoContent,
		Status:  status,
	}
	if !result.Success {
		result.Err = err
	}
	logger.LogAction(e.log, result)
	return result
}

// StarUserBestRepo stars login's profile repository (login/login) when it
// exists, and then always stars one of login's repositories chosen at
// random. Both stars can land in the same call, and the random pick may be
// the profile repository itself.
func (e *Executor) StarUserBestRepo(ctx context.Context, login string) []models.ActionResult {
	var results []models.ActionResult
	entry := e.log.WithField("target", login)

	status, err := e.api.GetRepo(ctx, login, login)
	switch status {
	case http.StatusOK:
		results = append(results, e.Star(ctx, models.Repository{Owner: login, Name: login}))
	case http.StatusNotFound:
		entry.Debug("No profile repository")
	default:
		entry.WithError(err).WarnWithFields("Profile repository probe failed", map[string]interface{}{
			"status": status,
		})
	}

	repos, status, err := e.api.ListRepos(ctx, login)
	if err != nil || status != http.StatusOK {
		entry.WithError(err).WarnWithFields("Could not list repositories", map[string]interface{}{
			"status": status,
		})
		// the random star never happened; report it against the user
		return append(results, e.record(models.ActionStar, login, status, err))
	}
	if len(repos) == 0 {
		entry.Info("No public repositories to star")
		return results
	}

	pick := repos[e.pick(len(repos))]
	if pick.Owner == "" {
		pick.Owner = login
	}
	results = append(results, e.Star(ctx, pick))
	return results
}
