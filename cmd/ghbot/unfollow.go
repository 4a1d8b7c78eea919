package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ghbot/pkg/config"
	"ghbot/pkg/models"
	"ghbot/pkg/storage"
	"ghbot/pkg/ui"
)

var (
	unfollowVerify bool
	unfollowDelay  time.Duration
	unfollowLog    string
)

// unfollowCmd represents the unfollow command
var unfollowCmd = &cobra.Command{
	Use:   "unfollow",
	Short: "Unfollow everyone who does not follow you back",
	Long: `Collect the accounts you follow and the accounts that follow you, then
unfollow every account in the first list that is missing from the second.

Each successful unfollow is appended to the unfollow log (one login per line).
The log is never rewritten, so it accumulates across runs. Use
'ghbot history' to view it.`,
	Example: `  # Unfollow non-reciprocal accounts with the default delay
  ghbot unfollow

  # Re-check each account right before unfollowing it
  ghbot unfollow --verify

  # Slow down and log somewhere else
  ghbot unfollow --delay 3s --unfollow-log ~/ghbot/unfollowed.txt`,
	Args: cobra.NoArgs,
	Run:  runUnfollow,
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show accounts recorded in the unfollow log",
	Args:  cobra.NoArgs,
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(historyCmd)

	unfollowCmd.Flags().BoolVar(&unfollowVerify, "verify", false, "re-check follow-back right before each unfollow")
	unfollowCmd.Flags().DurationVar(&unfollowDelay, "delay", 0, "pause between unfollows (default from config, 1s)")
	unfollowCmd.Flags().StringVar(&unfollowLog, "unfollow-log", "", "path of the unfollow log")

	historyCmd.Flags().StringVar(&unfollowLog, "unfollow-log", "", "path of the unfollow log")
}

func runUnfollow(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if unfollowDelay > 0 {
		flags["delay"] = unfollowDelay
	}
	if unfollowLog != "" {
		flags["unfollow-log"] = unfollowLog
	}

	s := newSession(flags, func(cfg *config.Config) {
		if cmd.Flags().Changed("verify") {
			cfg.Engine.VerifyBeforeUnfollow = unfollowVerify
		}
	})

	ctx, stop := signalContext()
	defer stop()

	report, err := s.bot.UnfollowNonReciprocal(ctx)
	if report.Summary.RunID != "" {
		s.display.Complete(report.Summary)
	}
	if err != nil {
		s.fail("Unfollow failed", err)
	}

	ui.PrintInfo("Following", strconv.Itoa(report.Following))
	ui.PrintInfo("Followers", strconv.Itoa(report.Followers))
	if report.FollowersTruncated {
		ui.PrintWarning("Followers list is incomplete, some unfollowed accounts may have followed back")
	}
	ui.PrintInfo("Not following back", strconv.Itoa(len(report.Candidates)))
	if report.Skipped > 0 {
		ui.PrintInfo("Skipped after re-check", strconv.Itoa(report.Skipped))
	}
	ui.PrintInfo("Unfollow log", report.LogPath)

	unfollowed := report.Summary.Count(models.ActionUnfollow)
	ui.PrintSuccess(fmt.Sprintf("Unfollowed %d accounts", unfollowed))
	s.done("Unfollow complete", fmt.Sprintf("%d accounts unfollowed", unfollowed))
}

func runHistory(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if unfollowLog != "" {
		flags["unfollow-log"] = unfollowLog
	}
	cfg := loadConfig(flags)

	entries, err := storage.ReadEntries(cfg.Output.UnfollowLog)
	if err != nil {
		ui.PrintError("Failed to read unfollow log", err.Error())
		os.Exit(1)
	}
	if len(entries) == 0 {
		ui.PrintInfo("No unfollows recorded", cfg.Output.UnfollowLog)
		return
	}

	ui.PrintHighlight(fmt.Sprintf("Unfollow log: %s", cfg.Output.UnfollowLog))
	if err := ui.RenderEntries(os.Stdout, entries); err != nil {
		ui.PrintError("Failed to render unfollow log", err.Error())
		os.Exit(1)
	}
}
