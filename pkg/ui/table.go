package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"ghbot/pkg/github"
	"ghbot/pkg/models"
)

// RenderTopTable writes a ranked table of accounts with their follower counts
func RenderTopTable(w io.Writer, top []models.Identity) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Login", "Followers", "Profile")

	for i, id := range top {
		row := []string{
			strconv.Itoa(i + 1),
			id.Login,
			strconv.Itoa(id.Followers),
			github.ProfileURL(id.Login),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add row for %s: %w", id.Login, err)
		}
	}
	return table.Render()
}

// RenderQuotaTable writes the core rate limit as a one-row table
func RenderQuotaTable(w io.Writer, q models.QuotaSnapshot, now time.Time) error {
	table := tablewriter.NewWriter(w)
	table.Header("Remaining", "Limit", "Resets At", "Resets In")

	resetIn := q.ResetAt.Sub(now)
	if resetIn < 0 {
		resetIn = 0
	}
	if err := table.Append([]string{
		strconv.Itoa(q.Remaining),
		strconv.Itoa(q.Limit),
		q.ResetAt.Local().Format(time.TimeOnly),
		FormatDuration(resetIn),
	}); err != nil {
		return err
	}
	return table.Render()
}

// RenderEntries writes a numbered list of logins, one per row
func RenderEntries(w io.Writer, entries []string) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Login")
	for i, login := range entries {
		if err := table.Append([]string{strconv.Itoa(i + 1), login}); err != nil {
			return err
		}
	}
	return table.Render()
}
