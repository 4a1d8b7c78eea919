package github

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagedPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		wantPath string
		wantPage string
		wantPer  string
	}{
		{"followers", FollowersPath("octocat", 2, 50), "users/octocat/followers", "2", "50"},
		{"following", FollowingPath(1, 100), "user/following", "1", "100"},
		{"starred clamps per_page", StarredPath(3, 500), "user/starred", "3", "100"},
		{"page floor", FollowingPath(0, 0), "user/following", "1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, u.Path)
			assert.Equal(t, tt.wantPage, u.Query().Get("page"))
			assert.Equal(t, tt.wantPer, u.Query().Get("per_page"))
		})
	}
}

func TestTrendingQuery(t *testing.T) {
	assert.Equal(t, "stars:>500", TrendingQuery(500))
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://github.com/octocat", ProfileURL("octocat"))
	assert.Equal(t, "", ProfileURL(""))
}

func TestIsValidLogin(t *testing.T) {
	tests := []struct {
		login string
		valid bool
	}{
		{"octocat", true},
		{"octo-cat", true},
		{"Octo123", true},
		{"a", true},
		{"", false},
		{"-octo", false},
		{"octo-", false},
		{"octo--cat", false},
		{"octo_cat", false},
		{"octo.cat", false},
		{"abcdefghijabcdefghijabcdefghijabcdefghij", false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidLogin(tt.login))
		})
	}
}

func TestSanitizeLogin(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"octocat", "octocat"},
		{"@octocat", "octocat"},
		{"  octocat  ", "octocat"},
		{"https://github.com/octocat/", "octocat"},
		{"github.com/octocat", "octocat"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogin(tt.input))
		})
	}
}
