package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"ghbot/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	accountName string
	username    string
	notify      bool
	noColor     bool
	quiet       bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ghbot",
	Short: "Automate following, unfollowing and starring on GitHub",
	Long: `ghbot manages the social graph of a GitHub account through the REST API.

Features:
  - Unfollow accounts that do not follow back, with an append-only log
  - Follow the followers of any user and star their best repositories
  - Follow the owner of a random trending repository
  - Remove every star
  - Rank the accounts you follow by their follower counts
  - Waits out the API rate limit instead of failing
  - Secure token storage using the system keychain`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
		if noColor {
			ui.SetColorEnabled(false)
		}

		// Logs would fight with the progress line, so only errors show by default
		if !verbose && logLevel == "" {
			logLevel = "error"
		}

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .ghbot.yaml or $HOME/.config/ghbot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; default error unless --verbose)")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "act as this login instead of resolving it from the token")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notify, "notify", false, "send desktop notifications on completion and rate limit waits")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show logs and one line per action")

	rootCmd.SetVersionTemplate(`ghbot {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
