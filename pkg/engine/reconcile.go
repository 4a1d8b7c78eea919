package engine

import (
	"sort"

	"ghbot/pkg/models"
)

// NonReciprocal returns the accounts in following that are not in followers.
// Logins are compared exactly; each login appears once, in following order.
func NonReciprocal(following, followers []models.Identity) []models.Identity {
	back := make(map[string]struct{}, len(followers))
	for _, f := range followers {
		back[f.Login] = struct{}{}
	}

	seen := make(map[string]struct{}, len(following))
	var out []models.Identity
	for _, f := range following {
		if _, ok := back[f.Login]; ok {
			continue
		}
		if _, dup := seen[f.Login]; dup {
			continue
		}
		seen[f.Login] = struct{}{}
		out = append(out, f)
	}
	return out
}

// TopNByFollowers returns the n identities with the most followers, highest
// first. Ties keep their input order. The input is not modified.
func TopNByFollowers(enriched []models.Identity, n int) []models.Identity {
	if n <= 0 {
		return nil
	}

	sorted := make([]models.Identity, len(enriched))
	copy(sorted, enriched)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Followers > sorted[j].Followers
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// TotalFollowers sums the follower counts
func TotalFollowers(identities []models.Identity) int {
	total := 0
	for _, id := range identities {
		total += id.Followers
	}
	return total
}
