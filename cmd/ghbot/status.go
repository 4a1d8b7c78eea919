package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"ghbot/pkg/github"
	"ghbot/pkg/ui"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:     "check <user> <target>",
	Short:   "Check whether one user follows another",
	Example: `  ghbot check octocat torvalds
  ghbot check @octocat https://github.com/torvalds`,
	Args:    cobra.ExactArgs(2),
	Run:     runCheck,
}

// ratelimitCmd represents the ratelimit command
var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show the remaining core API quota",
	Args:  cobra.NoArgs,
	Run:   runRateLimit,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(ratelimitCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	s := newSession(nil, nil)

	ctx, stop := signalContext()
	defer stop()

	user, target := github.SanitizeLogin(args[0]), github.SanitizeLogin(args[1])
	follows, err := s.bot.Check(ctx, user, target)
	if err != nil {
		s.fail("Check failed", err)
	}

	if follows {
		ui.PrintSuccess(user + " follows " + target)
	} else {
		ui.PrintWarning(user + " does not follow " + target)
	}
}

func runRateLimit(cmd *cobra.Command, args []string) {
	s := newSession(nil, nil)

	ctx, stop := signalContext()
	defer stop()

	quota, err := s.bot.QuotaStatus(ctx)
	if err != nil {
		s.fail("Failed to read rate limit", err)
	}

	if err := ui.RenderQuotaTable(os.Stdout, quota, time.Now()); err != nil {
		ui.PrintError("Failed to render table", err.Error())
		os.Exit(1)
	}
}
