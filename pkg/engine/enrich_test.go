package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghbot/pkg/logger"
)

func TestRunLookups(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(map[int]string{1: "sequential", 3: "pooled"}[workers], func(t *testing.T) {
			api := newFakeAPI()
			api.followers["a"] = 10
			api.followers["b"] = 30
			api.followers["c"] = 20
			api.badBody["broken"] = true
			api.statuses["user gone"] = 404
			tl := logger.NewTestLogger()

			lookups, err := RunLookups(context.Background(), api, ids("a", "broken", "b", "gone", "c"), workers, tl)
			require.NoError(t, err)
			require.Len(t, lookups, 5)

			SortLookups(lookups)
			for i, l := range lookups {
				assert.Equal(t, i, l.Index)
			}
			assert.True(t, lookups[1].OK, "decode failure counts as zero followers")
			assert.Equal(t, 0, lookups[1].Followers)
			assert.False(t, lookups[3].OK, "status failure is excluded")

			enriched := EnrichedIdentities(lookups)
			assert.Equal(t, []string{"a", "broken", "b", "c"}, logins(enriched))
			assert.Equal(t, 60, TotalFollowers(enriched))
			assert.True(t, tl.HasMessage("Follower lookup failed"))
		})
	}
}

func TestRunLookupsCancelled(t *testing.T) {
	api := newFakeAPI()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookups, err := RunLookups(ctx, api, ids("a", "b"), 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, lookups)
}
