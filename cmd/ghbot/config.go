package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ghbot/pkg/auth"
	"ghbot/pkg/config"
	"ghbot/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ghbot configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (GHBOT_*, GITHUB_TOKEN, GITHUB_USERNAME)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.ghbot.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging every source.

The token is masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Log and unfollow log path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# ghbot configuration file
#
# Environment variables override this file. The token is best kept out of
# it: use 'ghbot auth login', GITHUB_TOKEN, or a .env file.

github:
  # Personal access token (prefer 'ghbot auth login')
  token: ""

  # Account to act as. Leave empty to use the token's owner.
  username: ""

  # API endpoint, change for GitHub Enterprise
  base_url: "https://api.github.com/"

  user_agent: "ghbot/1.0"

  # Page size for list endpoints
  # Range: 1-100
  per_page: 100

rate_limit:
  # Client-side pacing of all requests
  requests_per_minute: 60
  burst_size: 10

  # Sleep until the quota resets once remaining drops to this value
  quota_threshold: 0

  # Extra time slept after the reset time
  quota_buffer: 1s

  # Pause after each follow/unfollow
  action_delay: 1s

  # Pause after each unstar
  unstar_delay: 500ms

engine:
  # Follower lookups for 'top': sequential or pooled
  concurrency: pooled

  # Worker count in pooled mode
  # Range: 1-10
  lookup_workers: 3

  # Star the best repository of every account followed
  star_on_follow: true

  # Re-check follow-back right before each unfollow
  verify_before_unfollow: false

  # Minimum stars for 'follow-random'
  trending_min_stars: 500

  # Rows shown by 'top'
  top_n: 10

output:
  # Append-only record of unfollowed logins
  unfollow_log: "unfollowed_users.txt"

retry:
  # Applies to resolving the token's owner at startup
  max_attempts: 3
  base_delay: 2s

logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Also write JSON logs to this file
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".ghbot.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'ghbot auth login' to store your GitHub token")
	fmt.Println("2. Run 'ghbot config validate' to check the configuration")
	fmt.Println("3. Start with 'ghbot top' or 'ghbot unfollow'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.GitHub.Token != "" {
		displayCfg.GitHub.Token = auth.MaskToken(displayCfg.GitHub.Token)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (GHBOT_*, GITHUB_TOKEN, GITHUB_USERNAME)")
	fmt.Println("3. .env file")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in default locations)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			".ghbot.yaml",
			".ghbot.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "ghbot", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".ghbot.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.RequireToken() != nil {
		warnings = append(warnings, "no token in config or environment (stored tokens are checked at run time)")
	}
	if cfg.RateLimit.ActionDelay == 0 {
		warnings = append(warnings, "action_delay is 0, mutating batches will run unpaced")
	}

	for _, path := range []string{cfg.Output.UnfollowLog, cfg.Logging.File} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create directory for %s: %v", path, err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  API: %s\n", cfg.GitHub.BaseURL)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Action delay: %s\n", cfg.RateLimit.ActionDelay)
	fmt.Printf("  Lookups: %s, %d workers\n", cfg.Engine.Concurrency, cfg.Workers())
	fmt.Printf("  Star on follow: %t\n", cfg.Engine.StarOnFollow)
	fmt.Printf("  Unfollow log: %s\n", cfg.Output.UnfollowLog)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
