package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghbot/pkg/logger"
)

func pagePath(page int) string {
	return fmt.Sprintf("users/x/followers?page=%d", page)
}

func TestCollectAllOrderAcrossPages(t *testing.T) {
	api := newFakeAPI()
	api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"},{"login":"b"}]`, status: 200}
	api.pages[pagePath(2)] = fakePage{body: `[{"login":"c"}]`, status: 200}
	api.pages[pagePath(3)] = fakePage{body: `[]`, status: 200}

	got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, logins(got))
	assert.Equal(t, []string{pagePath(1), pagePath(2), pagePath(3)}, api.fetched)
}

func TestCollectAllStopsOnEmptyPage(t *testing.T) {
	api := newFakeAPI()
	api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"}]`, status: 200}
	// page 2 is missing and the fake answers []
	api.pages[pagePath(3)] = fakePage{body: `[{"login":"never"}]`, status: 200}

	got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, logins(got))
	assert.Len(t, api.fetched, 2)
}

func TestCollectAllSoftStopOnStatus(t *testing.T) {
	for _, status := range []int{403, 404, 500} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			api := newFakeAPI()
			api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"}]`, status: 200}
			api.pages[pagePath(2)] = fakePage{body: `[{"login":"b"}]`, status: 200}
			api.pages[pagePath(3)] = fakePage{body: `{"message":"nope"}`, status: status}
			tl := logger.NewTestLogger()

			got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, tl)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, logins(got))
			assert.Len(t, api.fetched, 3, "no request after the failing page")
			assert.True(t, tl.HasMessage(fmt.Sprintf("Stopping pagination: page 3 returned status %d", status)))
		})
	}
}

func TestCollectAllFirstPageFails(t *testing.T) {
	api := newFakeAPI()
	api.pages[pagePath(1)] = fakePage{status: 0, err: errors.New("dial tcp: refused")}

	got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollectAllDecodeFailureKeepsPartial(t *testing.T) {
	api := newFakeAPI()
	api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"}]`, status: 200}
	api.pages[pagePath(2)] = fakePage{body: `{"not":"an array"}`, status: 200}
	tl := logger.NewTestLogger()

	got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, tl)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, logins(got))
	assert.True(t, tl.HasMessage("Stopping pagination: page did not decode"))
}

func TestCollectAllKeepsDuplicatesAcrossPages(t *testing.T) {
	// the platform's own ordering is reported as-is
	api := newFakeAPI()
	api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"},{"login":"b"}]`, status: 200}
	api.pages[pagePath(2)] = fakePage{body: `[{"login":"b"},{"login":"c"}]`, status: 200}

	got, err := CollectAll(context.Background(), api, pagePath, DecodeIdentities, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "c"}, logins(got))
}

func TestCollectAllCancelled(t *testing.T) {
	api := newFakeAPI()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := CollectAll(ctx, api, pagePath, DecodeIdentities, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
	assert.Empty(t, api.fetched)
}

func TestDecodeRepositories(t *testing.T) {
	repos, err := DecodeRepositories(json.RawMessage(`[{"name":"tools","owner":{"login":"alice"},"stargazers_count":3}]`))
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "alice/tools", repos[0].FullName())
	assert.Equal(t, 3, repos[0].Stars)

	_, err = DecodeRepositories(json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestCollectReportsTruncation(t *testing.T) {
	tests := []struct {
		name      string
		page2     fakePage
		truncated bool
	}{
		{"empty page ends the walk", fakePage{body: `[]`, status: 200}, false},
		{"server error", fakePage{body: `{"message":"boom"}`, status: 502}, true},
		{"transport error", fakePage{err: errors.New("connection reset")}, true},
		{"undecodable body", fakePage{body: `{"not":"an array"}`, status: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.pages[pagePath(1)] = fakePage{body: `[{"login":"a"}]`, status: 200}
			api.pages[pagePath(2)] = tt.page2

			got, err := Collect(context.Background(), api, pagePath, DecodeIdentities, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, logins(got.Items))
			assert.Equal(t, tt.truncated, got.Truncated)
		})
	}
}
