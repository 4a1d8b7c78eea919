package models

import "time"

// Identity is a GitHub account as returned by the follower/following listings.
// Followers is only populated after enrichment.
type Identity struct {
	Login     string `json:"login"`
	Followers int    `json:"followers,omitempty"`
}

// Repository identifies a repo by owner and name
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Stars int    `json:"stargazers_count,omitempty"`
}

// FullName returns "owner/name"
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// QuotaSnapshot is the remaining request budget reported by /rate_limit
type QuotaSnapshot struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// ActionKind is the mutating operation applied to a target
type ActionKind string

const (
	ActionFollow   ActionKind = "follow"
	ActionUnfollow ActionKind = "unfollow"
	ActionStar     ActionKind = "star"
	ActionUnstar   ActionKind = "unstar"
)

// ActionResult records the outcome of one mutating call
type ActionResult struct {
	Target  string
	Kind    ActionKind
	Success bool
	Status  int
	Err     error
}

// Lookup is a read-only enrichment result. Index is the position of the input
// item, since pooled lookups complete out of order.
type Lookup struct {
	Index     int
	Login     string
	Followers int
	OK        bool
}
