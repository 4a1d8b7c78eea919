package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ghbot/pkg/auth"
	"ghbot/pkg/github"
	"ghbot/pkg/logger"
	"ghbot/pkg/ui"
)

var skipVerify bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub tokens",
	Long: `Manage stored GitHub personal access tokens.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (GHBOT_TOKEN or GITHUB_TOKEN, read only)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store a GitHub token securely",
	Long: `Store a GitHub personal access token in the system keychain and an
encrypted file.

The token is checked against the API before it is saved, and the username
is taken from the token's owner when not given.`,
	Example: `  # Interactive login
  ghbot auth login

  # Login for a specific account
  ghbot auth login octocat`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove a stored token",
	Long: `Remove a stored GitHub token.

If no username is provided, you will be shown a list of stored accounts
to choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked tokens. The most recent one is the default.`,
	Run:   runList,
}

// switchCmd represents the auth switch command
var switchCmd = &cobra.Command{
	Use:   "switch [username]",
	Short: "Make a stored account the default",
	Long: `Make a stored account the default. The default is the most recently
stored account, so switching re-saves the chosen one.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSwitch,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token would be used and whether it works",
	Run:   runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(switchCmd)
	authCmd.AddCommand(authStatusCmd)

	loginCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the token without checking it against the API")
}

func newManager() *auth.Manager {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}
	return manager
}

func runLogin(cmd *cobra.Command, args []string) {
	manager := newManager()

	var login string
	if len(args) > 0 {
		login = strings.TrimSpace(args[0])
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowTokenGuide()

	fmt.Print("Ready to enter your token? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'ghbot auth login' when you're ready.")
		return
	}
	fmt.Println()

	var token string
	for {
		fmt.Print("🔐 GitHub token (hidden as you type): ")
		input, err := readPassword()
		if err != nil {
			ui.PrintError("Failed to read token", err.Error())
			os.Exit(1)
		}
		token = strings.TrimSpace(input)

		if strings.EqualFold(token, "help") {
			auth.ShowTokenGuide()
			continue
		}
		if len(token) < 20 || strings.ContainsAny(token, " \t") {
			fmt.Println("\n❌ That doesn't look like a GitHub token.")
			fmt.Println("   Classic tokens start with ghp_, fine-grained ones with github_pat_.")
			auth.ShowQuickTokenGuide()
			fmt.Print("\nTry again? (Y/n): ")
			again, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(again)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	if !skipVerify {
		fmt.Println("\n🔎 Checking token...")
		owner, err := tokenOwner(token)
		if err != nil {
			ui.PrintError("Token check failed", err.Error())
			fmt.Println("\nUse --skip-verify to store it anyway.")
			os.Exit(1)
		}
		if login != "" && !strings.EqualFold(login, owner) {
			ui.PrintWarning("Token belongs to a different account", owner)
		}
		if login == "" {
			login = owner
		}
	}

	if login == "" {
		fmt.Print("👤 GitHub username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read username", err.Error())
			os.Exit(1)
		}
		login = strings.TrimSpace(input)
	}
	if !github.IsValidLogin(login) {
		ui.PrintError("Invalid GitHub login", login)
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(login); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Replace its token? (y/N): ", login)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\n💾 Storing token securely...")
	if err := manager.Store(&auth.Account{Username: login, Token: token}); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s (%s)", login, auth.MaskToken(token)))

	fmt.Println("\n📖 Quick Start Guide:")
	fmt.Println("   $ ghbot unfollow            # unfollow non-followers")
	fmt.Println("   $ ghbot follow <user>       # follow someone's followers")
	fmt.Println("   $ ghbot top -n 20           # rank who you follow")
	fmt.Println("\n⚠️  Never share your token or config files!")
}

// tokenOwner resolves the login that token belongs to
func tokenOwner(token string) (string, error) {
	cfg := loadConfig(nil)

	client, err := github.NewClient(github.Options{
		Token:     token,
		BaseURL:   cfg.GitHub.BaseURL,
		UserAgent: cfg.GitHub.UserAgent,
	}, logger.NewNopLogger())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return client.AuthenticatedLogin(ctx)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager := newManager()

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + args[0])
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found")
		return
	}

	if len(accounts) == 1 {
		account := accounts[0]
		if !confirm(fmt.Sprintf("Remove account '%s'?", account.Username)) {
			return
		}
		if err := manager.Delete(account.Username); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Username)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Username)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	choice := readChoice()
	switch {
	case choice == 0:
		return
	case choice == len(accounts)+1:
		if !confirm("Remove ALL accounts? This cannot be undone!") {
			return
		}
		for _, account := range accounts {
			if err := manager.Delete(account.Username); err != nil {
				ui.PrintError("Failed to remove account", err.Error())
				os.Exit(1)
			}
		}
		ui.PrintSuccess("All accounts removed")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Username); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Username)
	default:
		ui.PrintError("Invalid choice")
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) {
	manager := newManager()

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'ghbot auth login' to add an account")
		return
	}

	var def string
	if account, err := manager.RetrieveDefault(); err == nil {
		def = account.Username
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		marker := ""
		if sanitized.Username == def {
			marker = " (default)"
		}
		fmt.Printf("%d. Username: %s%s\n", i+1, sanitized.Username, marker)
		fmt.Printf("   Token: %s\n", sanitized.Token)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runSwitch(cmd *cobra.Command, args []string) {
	manager := newManager()

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found")
		return
	}

	var login string
	if len(args) > 0 {
		login = args[0]
	} else {
		if len(accounts) == 1 {
			ui.PrintInfo("Only one account available", accounts[0].Username)
			return
		}

		fmt.Println("Select account:")
		for i, account := range accounts {
			fmt.Printf("  %d. %s\n", i+1, account.Username)
		}
		fmt.Println()

		choice := readChoice()
		if choice < 1 || choice > len(accounts) {
			ui.PrintError("Invalid choice")
			os.Exit(1)
		}
		login = accounts[choice-1].Username
	}

	if err := manager.SetDefault(login); err != nil {
		ui.PrintError("Failed to switch account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Default account: " + login)
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig(nil)
	applyStoredCredentials(cfg)
	if err := cfg.RequireToken(); err != nil {
		ui.PrintError("No GitHub token found", "Run 'ghbot auth login' to store one")
		os.Exit(1)
	}

	ui.PrintInfo("Token", auth.MaskToken(cfg.GitHub.Token))
	owner, err := tokenOwner(cfg.GitHub.Token)
	if err != nil {
		ui.PrintError("Token check failed", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Authenticated as " + owner)
	if cfg.GitHub.Username != "" && !strings.EqualFold(cfg.GitHub.Username, owner) {
		ui.PrintWarning("Configured username differs from token owner", cfg.GitHub.Username)
	}
}

// readChoice reads a menu number, 0 on bad input
func readChoice() int {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)
	return choice
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
