package github

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the GitHub REST API root
	DefaultBaseURL = "https://api.github.com/"

	// ProfileBaseURL is where public profiles live
	ProfileBaseURL = "https://github.com/"

	// AcceptHeader pins the v3 media type
	AcceptHeader = "application/vnd.github.v3+json"

	// MaxPerPage is the largest page size the API honours
	MaxPerPage = 100

	// MaxLoginLength is GitHub's limit on account names
	MaxLoginLength = 39
)

// FollowersPath is one page of the accounts following login
func FollowersPath(login string, page, perPage int) string {
	return pagedPath(fmt.Sprintf("users/%s/followers", url.PathEscape(login)), page, perPage)
}

// FollowingPath is one page of the accounts the authenticated user follows
func FollowingPath(page, perPage int) string {
	return pagedPath("user/following", page, perPage)
}

// StarredPath is one page of the authenticated user's starred repositories
func StarredPath(page, perPage int) string {
	return pagedPath("user/starred", page, perPage)
}

func pagedPath(base string, page, perPage int) string {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	if perPage > 0 {
		if perPage > MaxPerPage {
			perPage = MaxPerPage
		}
		params.Set("per_page", fmt.Sprint(perPage))
	}
	return base + "?" + params.Encode()
}

// TrendingQuery is the search query for repositories above a star threshold
func TrendingQuery(minStars int) string {
	return fmt.Sprintf("stars:>%d", minStars)
}

// ProfileURL returns the public profile URL for login
func ProfileURL(login string) string {
	if login == "" {
		return ""
	}
	return ProfileBaseURL + login
}

// IsValidLogin checks a login against GitHub's naming rules:
// alphanumerics and single hyphens, not at either end, at most 39 characters.
func IsValidLogin(login string) bool {
	if login == "" || len(login) > MaxLoginLength {
		return false
	}
	if login[0] == '-' || login[len(login)-1] == '-' {
		return false
	}

	prevHyphen := false
	for _, char := range login {
		switch {
		case (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9'):
			prevHyphen = false
		case char == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}

	return true
}

// SanitizeLogin strips a leading @, a profile URL prefix and trailing slashes or spaces
func SanitizeLogin(login string) string {
	login = strings.TrimSpace(login)
	login = strings.TrimPrefix(login, "@")

	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(strings.ToLower(login), prefix) {
			login = login[len(prefix):]
			break
		}
	}

	return strings.TrimRight(login, "/ ")
}
