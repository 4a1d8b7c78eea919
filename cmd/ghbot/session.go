package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ghbot/pkg/auth"
	"ghbot/pkg/bot"
	"ghbot/pkg/config"
	apierrors "ghbot/pkg/errors"
	"ghbot/pkg/logger"
	"ghbot/pkg/ui"
)

// session bundles what every API command needs
type session struct {
	cfg      *config.Config
	log      logger.Logger
	bot      *bot.Bot
	display  *ui.ProgressDisplay
	notifier *ui.Notifier
}

// loadConfig merges the global flags into flags and loads the configuration.
// Failure exits.
func loadConfig(flags map[string]interface{}) *config.Config {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if username != "" {
		flags["username"] = username
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	return cfg
}

// applyStoredCredentials fills the token from the credential manager when
// neither the environment nor the config file supplied one, or when
// --account asks for a specific stored account
func applyStoredCredentials(cfg *config.Config) {
	if cfg.GitHub.Token != "" && accountName == "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'ghbot auth list' to see stored accounts")
			os.Exit(1)
		}
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			// RequireToken reports the missing token later
			return
		}
	}

	cfg.GitHub.Token = account.Token
	if cfg.GitHub.Username == "" && account.Username != "default" {
		cfg.GitHub.Username = account.Username
	}
	ui.PrintInfo("Using account", account.Username)
}

// newSession loads config and credentials and builds the bot. adjust runs
// on the loaded config before the bot sees it.
func newSession(flags map[string]interface{}, adjust func(*config.Config)) *session {
	cfg := loadConfig(flags)
	applyStoredCredentials(cfg)
	if adjust != nil {
		adjust(cfg)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log.WithField("version", version).Debug("ghbot starting")

	s := &session{
		cfg:      cfg,
		log:      log,
		display:  ui.NewProgressDisplay(verbose),
		notifier: ui.NewNotifier(notify),
	}

	hooks := bot.Hooks{
		OnStart:    s.display.Start,
		OnResult:   s.display.Result,
		OnProgress: s.display.Progress,
	}
	s.bot, err = bot.NewFromConfig(cfg, log, bot.WithHooks(hooks), bot.WithOnQuotaWait(s.quotaWait))
	if errors.Is(err, apierrors.ErrMissingToken) {
		ui.PrintError("No GitHub token found")
		fmt.Println("\nTo store a token securely, run:")
		fmt.Println("  ghbot auth login")
		fmt.Println("\nOr set it in the environment or a .env file:")
		fmt.Println("  export GITHUB_TOKEN=ghp_...")
		os.Exit(1)
	}
	if err != nil {
		ui.PrintError("Failed to initialize ghbot", err.Error())
		os.Exit(1)
	}

	return s
}

func (s *session) quotaWait(wait time.Duration) {
	s.display.RateLimitWarning(wait)
	if notify {
		s.notifier.SendNotification("Rate limit reached", "Waiting "+ui.FormatDuration(wait))
	}
}

// done sends a completion notice when --notify is set
func (s *session) done(title, message string) {
	if notify {
		s.notifier.SendNotification(title, message)
	}
}

// fail reports err and exits. An interrupt is not a failure.
func (s *session) fail(msg string, err error) {
	if errors.Is(err, context.Canceled) {
		ui.PrintWarning("Interrupted", "partial results shown above")
		os.Exit(130)
	}

	s.log.WithError(err).Error(msg)
	if notify {
		s.notifier.SendError(msg, err.Error())
	}
	ui.PrintError(msg, err.Error())
	os.Exit(1)
}

// signalContext is cancelled on Ctrl-C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// confirm asks a yes/no question, defaulting to no
func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s (y/N): ", question)
	input, _ := reader.ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y")
}
