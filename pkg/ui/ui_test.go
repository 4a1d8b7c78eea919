package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghbot/pkg/engine"
	"ghbot/pkg/models"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "━━━━━─────", ProgressBar(5, 10, 10))
	assert.Equal(t, "──────────", ProgressBar(0, 0, 10))
	assert.Equal(t, "━━━━━━━━━━", ProgressBar(12, 10, 10))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "3m12s", FormatDuration(3*time.Minute+12*time.Second))
	assert.Equal(t, "1h05m", FormatDuration(time.Hour+5*time.Minute))
}

func TestETA(t *testing.T) {
	assert.Equal(t, "calculating...", ETA(0, 10, time.Minute))
	assert.Equal(t, "0s", ETA(10, 10, time.Minute))
	assert.Equal(t, "10s", ETA(5, 10, 10*time.Second))
}

func TestProgressDisplayVerbose(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplayTo(&buf, true)

	p.Start("unfollow", 2)
	p.Result(models.ActionResult{Target: "alice", Kind: models.ActionUnfollow, Success: true, Status: 204})
	p.Progress(1, 2)
	p.Result(models.ActionResult{Target: "bob", Kind: models.ActionUnfollow, Status: 500})
	p.Progress(2, 2)
	p.Complete(engine.Summary{
		Name: "unfollow", Total: 2, Processed: 2, Successes: 1, Failures: 1,
		Counts: map[models.ActionKind]int{models.ActionUnfollow: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "unfollow: 2 targets")
	assert.Contains(t, out, "unfollow alice")
	assert.Contains(t, out, "(status 500)")
	assert.Contains(t, out, "2/2 processed")
	assert.Contains(t, out, "1 actions failed")
}

func TestProgressDisplayQuiet(t *testing.T) {
	SetQuietMode(true)
	defer SetQuietMode(false)

	var buf bytes.Buffer
	p := NewProgressDisplayTo(&buf, false)
	p.Start("unstar", 1)
	p.Progress(1, 1)
	p.Complete(engine.Summary{Name: "unstar"})
	assert.Empty(t, buf.String())
}

func TestRenderTopTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTopTable(&buf, []models.Identity{
		{Login: "torvalds", Followers: 200000},
		{Login: "octocat", Followers: 9000},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "torvalds")
	assert.Contains(t, out, "200000")
	assert.Contains(t, out, "https://github.com/octocat")
	assert.Less(t, strings.Index(out, "torvalds"), strings.Index(out, "octocat"))
}

func TestRenderQuotaTable(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	require.NoError(t, RenderQuotaTable(&buf, models.QuotaSnapshot{Remaining: 42, Limit: 5000, ResetAt: now.Add(90 * time.Second)}, now))
	assert.Contains(t, buf.String(), "42")
	assert.Contains(t, buf.String(), "1m30s")
}

type recordingSender struct {
	titles []string
	err    error
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{err: errors.New("no display")}
	n := NewNotifierWithSender(sender)

	n.SendNotification("ghbot", "unfollow finished")
	n.SendError("ghbot", "run aborted")
	assert.Equal(t, []string{"ghbot", "ghbot"}, sender.titles)

	NewNotifier(false).SendNotification("ghbot", "printed only")
}

func TestColorToggle(t *testing.T) {
	profile := renderer.ColorProfile()
	t.Cleanup(func() {
		renderer.SetColorProfile(profile)
		SetColorEnabled(true)
	})
	renderer.SetColorProfile(termenv.ANSI)

	SetColorEnabled(true)
	red := Red("x")
	assert.Contains(t, red, "\x1b[")
	assert.Contains(t, red, "x")
	assert.NotEqual(t, Red("x"), Green("x"))

	SetColorEnabled(false)
	assert.Equal(t, "x", Red("x"))
	assert.Equal(t, "x", Dim("x"))
}

func TestPlainOutputWithoutColorProfile(t *testing.T) {
	profile := renderer.ColorProfile()
	t.Cleanup(func() { renderer.SetColorProfile(profile) })

	// what a pipe or NO_COLOR gets
	renderer.SetColorProfile(termenv.Ascii)
	assert.Equal(t, "x", Cyan("x"))
	assert.Equal(t, "x", Dim("x"))
}
