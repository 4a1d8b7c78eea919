package engine

import (
	"context"
	"sort"

	"ghbot/internal/pool"
	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/logger"
	"ghbot/pkg/models"
)

// RunLookups fetches the follower count of every identity. With workers > 1
// the lookups run on a fixed-size pool and results arrive in completion
// order; use SortLookups to restore input order.
//
// A body that fails to decode counts as zero followers. A failed request
// (transport error or non-success status) is logged and the identity is
// marked !OK.
func RunLookups(ctx context.Context, counter pool.FollowerCounter, identities []models.Identity, workers int, log logger.Logger) ([]models.Lookup, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if workers <= 1 {
		return runLookupsSequential(ctx, counter, identities, log)
	}

	p := pool.NewWorkerPool(ctx, workers, counter, log)
	p.Start()

	go func() {
		defer p.Stop()
		for i, id := range identities {
			if err := p.Submit(pool.LookupJob{Index: i, Login: id.Login}); err != nil {
				return
			}
		}
	}()

	lookups := make([]models.Lookup, 0, len(identities))
	for res := range p.Results() {
		lookups = append(lookups, toLookup(res, log))
	}
	return lookups, ctx.Err()
}

func runLookupsSequential(ctx context.Context, counter pool.FollowerCounter, identities []models.Identity, log logger.Logger) ([]models.Lookup, error) {
	lookups := make([]models.Lookup, 0, len(identities))
	for i, id := range identities {
		if err := ctx.Err(); err != nil {
			return lookups, err
		}
		followers, status, err := counter.FollowerCount(ctx, id.Login)
		lookups = append(lookups, toLookup(pool.LookupResult{
			Job:       pool.LookupJob{Index: i, Login: id.Login},
			Followers: followers,
			Status:    status,
			Error:     err,
		}, log))
	}
	return lookups, nil
}

func toLookup(res pool.LookupResult, log logger.Logger) models.Lookup {
	lookup := models.Lookup{Index: res.Job.Index, Login: res.Job.Login}

	switch {
	case res.Error == nil:
		lookup.Followers = res.Followers
		lookup.OK = true
	case apierrors.TypeOf(res.Error) == apierrors.ErrorTypeParsing:
		log.WithError(res.Error).WithField("login", res.Job.Login).Warn("Follower count did not decode, using 0")
		lookup.OK = true
	default:
		log.WithError(res.Error).WithFields(map[string]interface{}{
			"login":  res.Job.Login,
			"status": res.Status,
		}).Warn("Follower lookup failed")
	}
	return lookup
}

// SortLookups orders lookups by input index
func SortLookups(lookups []models.Lookup) {
	sort.Slice(lookups, func(i, j int) bool { return lookups[i].Index < lookups[j].Index })
}

// EnrichedIdentities returns the successful lookups as identities in input order
func EnrichedIdentities(lookups []models.Lookup) []models.Identity {
	sorted := make([]models.Lookup, len(lookups))
	copy(sorted, lookups)
	SortLookups(sorted)

	out := make([]models.Identity, 0, len(sorted))
	for _, l := range sorted {
		if l.OK {
			out = append(out, models.Identity{Login: l.Login, Followers: l.Followers})
		}
	}
	return out
}
