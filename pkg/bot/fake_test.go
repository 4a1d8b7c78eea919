package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/models"
)

// fakeAPI serves pages keyed by path prefix and records every call in order
type fakeAPI struct {
	mu sync.Mutex

	pages     map[string][]string // path prefix -> page bodies, page 1 first
	statuses  map[string]int      // call -> status override
	repos     map[string][]models.Repository
	followers map[string]int
	following map[string]bool // "login->target"
	trending  []models.Repository
	login     string
	loginErrs int
	calls     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:     make(map[string][]string),
		statuses:  make(map[string]int),
		repos:     make(map[string][]models.Repository),
		followers: make(map[string]int),
		following: make(map[string]bool),
	}
}

func (f *fakeAPI) record(call string, def int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if s, ok := f.statuses[call]; ok {
		return s
	}
	return def
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func result(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return apierrors.FromStatus(status, "fake failure")
}

func (f *fakeAPI) PerPage() int { return 100 }

func (f *fakeAPI) FetchPage(ctx context.Context, path string) (json.RawMessage, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "GET "+path)
	if s, ok := f.statuses["GET "+path]; ok {
		return json.RawMessage(`{"message":"fake failure"}`), s, result(s)
	}

	base, query, _ := strings.Cut(path, "?")
	page := 1
	for _, kv := range strings.Split(query, "&") {
		if v, ok := strings.CutPrefix(kv, "page="); ok {
			fmt.Sscan(v, &page)
		}
	}
	bodies := f.pages[base]
	if page > len(bodies) {
		return json.RawMessage(`[]`), 200, nil
	}
	return json.RawMessage(bodies[page-1]), 200, nil
}

func (f *fakeAPI) Follow(ctx context.Context, login string) (int, error) {
	s := f.record("follow "+login, 204)
	return s, result(s)
}

func (f *fakeAPI) Unfollow(ctx context.Context, login string) (int, error) {
	s := f.record("unfollow "+login, 204)
	return s, result(s)
}

func (f *fakeAPI) Star(ctx context.Context, owner, repo string) (int, error) {
	s := f.record("star "+owner+"/"+repo, 204)
	return s, result(s)
}

func (f *fakeAPI) Unstar(ctx context.Context, owner, repo string) (int, error) {
	s := f.record("unstar "+owner+"/"+repo, 204)
	return s, result(s)
}

func (f *fakeAPI) GetRepo(ctx context.Context, owner, repo string) (int, error) {
	s := f.record("get "+owner+"/"+repo, 404)
	if s == 200 || s == 404 {
		return s, nil
	}
	return s, result(s)
}

func (f *fakeAPI) ListRepos(ctx context.Context, login string) ([]models.Repository, int, error) {
	f.record("list "+login, 200)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repos[login], 200, nil
}

func (f *fakeAPI) FollowerCount(ctx context.Context, login string) (int, int, error) {
	s := f.record("user "+login, 200)
	if s != 200 {
		return 0, s, result(s)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.followers[login], 200, nil
}

func (f *fakeAPI) IsFollowing(ctx context.Context, login, target string) (bool, int, error) {
	s := f.record("check "+login+"->"+target, 0)
	if s != 0 {
		return false, s, result(s)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.following[login+"->"+target] {
		return true, 204, nil
	}
	return false, 404, nil
}

func (f *fakeAPI) AuthenticatedLogin(ctx context.Context) (string, error) {
	f.record("whoami", 200)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErrs > 0 {
		f.loginErrs--
		return "", apierrors.FromStatus(0, "connection reset")
	}
	return f.login, nil
}

func (f *fakeAPI) SearchRepos(ctx context.Context, query, sort string) ([]models.Repository, int, error) {
	f.record("search "+query+" sort="+sort, 200)
	return f.trending, 200, nil
}

func (f *fakeAPI) RateLimit(ctx context.Context) (models.QuotaSnapshot, error) {
	return models.QuotaSnapshot{Remaining: 5000, Limit: 5000, ResetAt: time.Now().Add(time.Hour)}, nil
}

func loginsJSON(logins ...string) string {
	items := make([]map[string]string, len(logins))
	for i, l := range logins {
		items[i] = map[string]string{"login": l}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func loginsOf(ids []models.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Login
	}
	return out
}
