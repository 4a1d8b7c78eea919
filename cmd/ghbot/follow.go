package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ghbot/pkg/bot"
	"ghbot/pkg/config"
	"ghbot/pkg/github"
	"ghbot/pkg/models"
	"ghbot/pkg/ui"
)

var (
	followStar     bool
	followNoStar   bool
	followDelay    time.Duration
	randomMinStars int
)

// followCmd represents the follow command
var followCmd = &cobra.Command{
	Use:   "follow <user>",
	Short: "Follow every follower of a user",
	Long: `Collect every follower of <user> and follow each one.

<user> may be a login, @login or a profile URL.

After each successful follow ghbot can also star the followed account's
profile repository (login/login) when it exists, plus one of their public
repositories picked at random. Starring is on by default and can be
disabled in the config file or with --no-star.`,
	Example: `  # Follow the followers of octocat and star their repositories
  ghbot follow octocat

  # Follow only
  ghbot follow @octocat --no-star
  ghbot follow https://github.com/octocat --no-star`,
	Args: cobra.ExactArgs(1),
	Run:  runFollow,
}

// followRandomCmd represents the follow-random command
var followRandomCmd = &cobra.Command{
	Use:   "follow-random",
	Short: "Follow the owner of a random trending repository",
	Long: `Search for repositories above a star threshold, pick one at random
and follow its owner.`,
	Example: `  ghbot follow-random
  ghbot follow-random --min-stars 2000 --star`,
	Args: cobra.NoArgs,
	Run:  runFollowRandom,
}

func init() {
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(followRandomCmd)

	followCmd.Flags().BoolVar(&followStar, "star", false, "star each followed account's best repository (default from config, true)")
	followCmd.Flags().BoolVar(&followNoStar, "no-star", false, "do not star anything")
	followCmd.Flags().DurationVar(&followDelay, "delay", 0, "pause between follows (default from config, 1s)")

	followRandomCmd.Flags().IntVar(&randomMinStars, "min-stars", 0, "minimum stars of the trending repository (default from config, 500)")
	followRandomCmd.Flags().BoolVar(&followStar, "star", false, "also star the owner's best repository (default from config, true)")
}

// starFlag resolves --star/--no-star against the configured default
func starFlag(cmd *cobra.Command, cfg *config.Config) bool {
	if followNoStar {
		return false
	}
	if cmd.Flags().Changed("star") {
		return followStar
	}
	return cfg.Engine.StarOnFollow
}

func runFollow(cmd *cobra.Command, args []string) {
	target := github.SanitizeLogin(args[0])
	if !github.IsValidLogin(target) {
		ui.PrintError("Invalid GitHub login", args[0])
		os.Exit(1)
	}

	flags := make(map[string]interface{})
	if followDelay > 0 {
		flags["delay"] = followDelay
	}

	s := newSession(flags, nil)
	star := starFlag(cmd, s.cfg)
	ui.PrintInfo("Target Profile", github.ProfileURL(target))

	ctx, stop := signalContext()
	defer stop()

	summary, err := s.bot.FollowFollowersOf(ctx, target, star)
	if summary.RunID != "" {
		s.display.Complete(summary)
	}
	if err != nil {
		s.fail("Follow failed", err)
	}

	msg := fmt.Sprintf("Followed %d accounts", summary.Count(models.ActionFollow))
	if star {
		msg += fmt.Sprintf(", starred %d repositories", summary.Count(models.ActionStar))
	}
	ui.PrintSuccess(msg)
	s.done("Follow complete", msg)
}

func runFollowRandom(cmd *cobra.Command, args []string) {
	s := newSession(nil, nil)

	minStars := randomMinStars
	if minStars <= 0 {
		minStars = s.cfg.Engine.TrendingMinStars
	}
	star := starFlag(cmd, s.cfg)

	ctx, stop := signalContext()
	defer stop()

	owner, summary, err := s.bot.FollowRandom(ctx, minStars, star)
	if errors.Is(err, bot.ErrNoTrending) {
		ui.PrintWarning("No repositories found", fmt.Sprintf("nothing above %d stars", minStars))
		return
	}
	if summary.RunID != "" {
		s.display.Complete(summary)
	}
	if err != nil {
		s.fail("Follow random failed", err)
	}

	if summary.Count(models.ActionFollow) == 0 {
		ui.PrintWarning("Could not follow", owner)
		return
	}
	ui.PrintSuccess("Followed " + owner)
	ui.PrintInfo("Profile", github.ProfileURL(owner))
	s.done("Follow complete", "Followed "+owner)
}
