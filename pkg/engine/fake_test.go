package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/models"
)

type fakePage struct {
	body   string
	status int
	err    error
}

// fakeAPI is an in-memory stand-in for the GitHub client
type fakeAPI struct {
	mu sync.Mutex

	pages     map[string]fakePage
	fetched   []string
	statuses  map[string]int
	repos     map[string][]models.Repository
	followers map[string]int
	badBody   map[string]bool
	calls     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:     make(map[string]fakePage),
		statuses:  make(map[string]int),
		repos:     make(map[string][]models.Repository),
		followers: make(map[string]int),
		badBody:   make(map[string]bool),
	}
}

func (f *fakeAPI) record(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if s, ok := f.statuses[call]; ok {
		return s
	}
	return 204
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func statusErr(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return apierrors.FromStatus(status, "fake failure")
}

func (f *fakeAPI) FetchPage(ctx context.Context, path string) (json.RawMessage, int, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, path)
	p, ok := f.pages[path]
	f.mu.Unlock()
	if !ok {
		return json.RawMessage(`[]`), 200, nil
	}
	if p.err != nil {
		return nil, p.status, p.err
	}
	return json.RawMessage(p.body), p.status, statusErr(p.status)
}

func (f *fakeAPI) Follow(ctx context.Context, login string) (int, error) {
	s := f.record("follow " + login)
	return s, statusErr(s)
}

func (f *fakeAPI) Unfollow(ctx context.Context, login string) (int, error) {
	s := f.record("unfollow " + login)
	return s, statusErr(s)
}

func (f *fakeAPI) Star(ctx context.Context, owner, repo string) (int, error) {
	s := f.record("star " + owner + "/" + repo)
	return s, statusErr(s)
}

func (f *fakeAPI) Unstar(ctx context.Context, owner, repo string) (int, error) {
	s := f.record("unstar " + owner + "/" + repo)
	return s, statusErr(s)
}

func (f *fakeAPI) GetRepo(ctx context.Context, owner, repo string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "get " + owner + "/" + repo
	f.calls = append(f.calls, key)
	s, ok := f.statuses[key]
	if !ok {
		s = 404
	}
	if s == 200 || s == 404 {
		return s, nil
	}
	return s, statusErr(s)
}

func (f *fakeAPI) ListRepos(ctx context.Context, login string) ([]models.Repository, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "list " + login
	f.calls = append(f.calls, key)
	if s, ok := f.statuses[key]; ok && s != 200 {
		return nil, s, statusErr(s)
	}
	return f.repos[login], 200, nil
}

func (f *fakeAPI) FollowerCount(ctx context.Context, login string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.badBody[login] {
		return 0, 200, &apierrors.Error{Type: apierrors.ErrorTypeParsing, Message: "bad json", Code: 200}
	}
	if s, ok := f.statuses["user "+login]; ok {
		return 0, s, statusErr(s)
	}
	n, ok := f.followers[login]
	if !ok {
		return 0, 0, errors.New("connection reset")
	}
	return n, 200, nil
}

func ids(logins ...string) []models.Identity {
	out := make([]models.Identity, len(logins))
	for i, l := range logins {
		out[i] = models.Identity{Login: l}
	}
	return out
}

func logins(identities []models.Identity) []string {
	out := make([]string, len(identities))
	for i, id := range identities {
		out[i] = id.Login
	}
	return out
}
