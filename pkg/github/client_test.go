package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/logger"
)

// newTestClient points a Client at an httptest server driven by mux
func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *logger.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tl := logger.NewTestLogger()
	client, err := NewClient(Options{
		Token:   "test-token",
		BaseURL: srv.URL,
		PerPage: 100,
	}, tl)
	require.NoError(t, err)
	return client, tl
}

func TestTransportHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/following", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		assert.Equal(t, AcceptHeader, r.Header.Get("Accept"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `[{"login":"a"}]`)
	})

	client, tl := newTestClient(t, mux)
	raw, status, err := client.FetchPage(context.Background(), FollowingPath(2, 100))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"login":"a"}]`, string(raw))
	assert.True(t, tl.HasMessage("HTTP request completed"))
}

func TestFetchPageNonSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost/followers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	client, _ := newTestClient(t, mux)
	_, status, err := client.FetchPage(context.Background(), FollowersPath("ghost", 1, 100))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apierrors.ErrorTypeNotFound, apierrors.TypeOf(err))
}

func TestFetchPageNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	base := srv.URL
	srv.Close()

	client, err := NewClient(Options{Token: "t", BaseURL: base, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, status, err := client.FetchPage(context.Background(), "user/following?page=1")
	require.Error(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, apierrors.ErrorTypeNetwork, apierrors.TypeOf(err))
}

func TestFollowAndUnfollow(t *testing.T) {
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/user/following/alice", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/user/following/blocked", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Forbidden"}`)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	status, err := client.Follow(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	status, err = client.Unfollow(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, calls)

	status, err = client.Follow(ctx, "blocked")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStarAndUnstar(t *testing.T) {
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/user/starred/alice/tools", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	status, err := client.Star(ctx, "alice", "tools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	status, err = client.Unstar(ctx, "alice", "tools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, calls)
}

func TestGetRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/alice/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"alice","owner":{"login":"alice"}}`)
	})
	mux.HandleFunc("/repos/bob/bob", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/repos/carol/carol", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	status, err := client.GetRepo(ctx, "alice", "alice")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, err = client.GetRepo(ctx, "bob", "bob")
	assert.NoError(t, err, "404 is a valid probe answer")
	assert.Equal(t, http.StatusNotFound, status)

	status, err = client.GetRepo(ctx, "carol", "carol")
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestListRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[{"name":"x","owner":{"login":"alice"}},{"name":"y","owner":{"login":"alice"},"stargazers_count":7}]`)
	})

	client, _ := newTestClient(t, mux)
	repos, status, err := client.ListRepos(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, repos, 2)
	assert.Equal(t, "alice/x", repos[0].FullName())
	assert.Equal(t, 7, repos[1].Stars)
}

func TestIsFollowing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice/following/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/users/bob/following/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	ok, status, err := client.IsFollowing(ctx, "alice", "me")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)

	ok, status, err = client.IsFollowing(ctx, "bob", "me")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFollowerCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"alice","followers":42}`)
	})
	mux.HandleFunc("/users/broken", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":`)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	n, status, err := client.FollowerCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, http.StatusOK, status)

	_, status, err = client.FollowerCount(ctx, "broken")
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, apierrors.ErrorTypeParsing, apierrors.TypeOf(err))
}

func TestAuthenticatedLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"me"}`)
	})

	client, _ := newTestClient(t, mux)
	login, err := client.AuthenticatedLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", login)
}

func TestSearchRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stars:>500", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total_count": 1,
			"items": []map[string]interface{}{
				{"name": "big", "owner": map[string]string{"login": "star"}, "stargazers_count": 9000},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	repos, status, err := client.SearchRepos(context.Background(), TrendingQuery(500), "stars")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, repos, 1)
	assert.Equal(t, "star", repos[0].Owner)
	assert.Equal(t, 9000, repos[0].Stars)
}

func TestRateLimit(t *testing.T) {
	reset := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"resources":{"core":{"limit":5000,"remaining":12,"reset":%d}},"rate":{"limit":5000,"remaining":12,"reset":%d}}`,
			reset.Unix(), reset.Unix())
	})

	client, _ := newTestClient(t, mux)
	snap, err := client.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, snap.Remaining)
	assert.Equal(t, 5000, snap.Limit)
	assert.True(t, reset.Equal(snap.ResetAt))
}

func TestRateLimitFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, mux)
	_, err := client.RateLimit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrorTypeServerError, apierrors.TypeOf(err))
}
