package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apierrors "ghbot/pkg/errors"
)

// Concurrency modes for read-only lookups
const (
	ConcurrencySequential = "sequential"
	ConcurrencyPooled     = "pooled"
)

// Config holds all configuration options for ghbot
type Config struct {
	// GitHub credentials and API endpoint
	GitHub GitHubConfig `yaml:"github" json:"github"`

	// Client pacing and quota gate
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Batch engine behavior
	Engine EngineConfig `yaml:"engine" json:"engine"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GitHubConfig holds GitHub-specific configuration
type GitHubConfig struct {
	Token     string `yaml:"token" json:"token"`
	Username  string `yaml:"username" json:"username"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	PerPage   int    `yaml:"per_page" json:"per_page"`
}

// RateLimitConfig holds client-side pacing and quota gate settings
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int           `yaml:"burst_size" json:"burst_size"`
	QuotaThreshold    int           `yaml:"quota_threshold" json:"quota_threshold"`
	QuotaBuffer       time.Duration `yaml:"quota_buffer" json:"quota_buffer"`
	ActionDelay       time.Duration `yaml:"action_delay" json:"action_delay"`
	UnstarDelay       time.Duration `yaml:"unstar_delay" json:"unstar_delay"`
}

// EngineConfig controls how batch runs behave
type EngineConfig struct {
	Concurrency          string `yaml:"concurrency" json:"concurrency"`
	LookupWorkers        int    `yaml:"lookup_workers" json:"lookup_workers"`
	StarOnFollow         bool   `yaml:"star_on_follow" json:"star_on_follow"`
	VerifyBeforeUnfollow bool   `yaml:"verify_before_unfollow" json:"verify_before_unfollow"`
	TrendingMinStars     int    `yaml:"trending_min_stars" json:"trending_min_stars"`
	TopN                 int    `yaml:"top_n" json:"top_n"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	UnfollowLog string `yaml:"unfollow_log" json:"unfollow_log"`
}

// RetryConfig applies to the startup identity lookup only
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com/",
			UserAgent: "ghbot/1.0",
			PerPage:   100,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
			QuotaThreshold:    0,
			QuotaBuffer:       time.Second,
			ActionDelay:       time.Second,
			UnstarDelay:       500 * time.Millisecond,
		},
		Engine: EngineConfig{
			Concurrency:          ConcurrencyPooled,
			LookupWorkers:        3,
			StarOnFollow:         true,
			VerifyBeforeUnfollow: false,
			TrendingMinStars:     500,
			TopN:                 10,
		},
		Output: OutputConfig{
			UnfollowLog: "unfollowed_users.txt",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
// GITHUB_TOKEN and GITHUB_USERNAME are read first, GHBOT_* variables override them.
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if username := os.Getenv("GITHUB_USERNAME"); username != "" {
		c.GitHub.Username = username
	}
	if token := os.Getenv("GHBOT_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if username := os.Getenv("GHBOT_USERNAME"); username != "" {
		c.GitHub.Username = username
	}
	if baseURL := os.Getenv("GHBOT_BASE_URL"); baseURL != "" {
		c.GitHub.BaseURL = baseURL
	}

	if rpm := os.Getenv("GHBOT_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			return fmt.Errorf("invalid GHBOT_REQUESTS_PER_MINUTE %q: %w", rpm, err)
		}
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if delay := os.Getenv("GHBOT_ACTION_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid GHBOT_ACTION_DELAY %q: %w", delay, err)
		}
		c.RateLimit.ActionDelay = d
	}

	if concurrency := os.Getenv("GHBOT_CONCURRENCY"); concurrency != "" {
		c.Engine.Concurrency = strings.ToLower(concurrency)
	}
	if workers := os.Getenv("GHBOT_LOOKUP_WORKERS"); workers != "" {
		val, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid GHBOT_LOOKUP_WORKERS %q: %w", workers, err)
		}
		if val > 0 {
			c.Engine.LookupWorkers = val
		}
	}
	if star := os.Getenv("GHBOT_STAR_ON_FOLLOW"); star != "" {
		c.Engine.StarOnFollow = strings.ToLower(star) == "true"
	}

	if logPath := os.Getenv("GHBOT_UNFOLLOW_LOG"); logPath != "" {
		c.Output.UnfollowLog = logPath
	}
	if logLevel := os.Getenv("GHBOT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".ghbot.yaml",
		".ghbot.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "ghbot", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "ghbot", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".ghbot.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The token is not required
// here since commands like "config show" run without one; see RequireToken.
func (c *Config) Validate() error {
	var errs []error

	if c.GitHub.BaseURL == "" {
		errs = append(errs, errors.New("GitHub base URL is required"))
	}
	if c.GitHub.PerPage <= 0 || c.GitHub.PerPage > 100 {
		errs = append(errs, errors.New("per_page must be between 1 and 100"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}
	if c.RateLimit.QuotaThreshold < 0 {
		errs = append(errs, errors.New("quota threshold cannot be negative"))
	}
	if c.RateLimit.QuotaBuffer < 0 {
		errs = append(errs, errors.New("quota buffer cannot be negative"))
	}
	if c.RateLimit.ActionDelay < 0 || c.RateLimit.UnstarDelay < 0 {
		errs = append(errs, errors.New("action delays cannot be negative"))
	}

	switch c.Engine.Concurrency {
	case ConcurrencySequential, ConcurrencyPooled:
	default:
		errs = append(errs, fmt.Errorf("invalid concurrency %q (want sequential or pooled)", c.Engine.Concurrency))
	}
	if c.Engine.LookupWorkers <= 0 {
		errs = append(errs, errors.New("lookup workers must be positive"))
	}
	if c.Engine.LookupWorkers > 10 {
		errs = append(errs, errors.New("lookup workers should not exceed 10"))
	}
	if c.Engine.TopN <= 0 {
		errs = append(errs, errors.New("top_n must be positive"))
	}

	if c.Output.UnfollowLog == "" {
		errs = append(errs, errors.New("unfollow log path is required"))
	}

	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry attempts must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// RequireToken reports whether a token is available for API calls
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.GitHub.Token) == "" {
		return apierrors.ErrMissingToken
	}
	return nil
}

// Workers returns the lookup pool size, collapsing to 1 in sequential mode
func (c *Config) Workers() int {
	if c.Engine.Concurrency == ConcurrencySequential {
		return 1
	}
	return c.Engine.LookupWorkers
}

// Save saves the configuration to a file. The token is never written.
func (c *Config) Save(path string) error {
	out := *c
	out.GitHub.Token = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.GitHub.Token = token
	}
	if username, ok := flags["username"].(string); ok && username != "" {
		c.GitHub.Username = username
	}
	if concurrency, ok := flags["concurrency"].(string); ok && concurrency != "" {
		c.Engine.Concurrency = strings.ToLower(concurrency)
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Engine.LookupWorkers = workers
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay > 0 {
		c.RateLimit.ActionDelay = delay
	}
	if logPath, ok := flags["unfollow-log"].(string); ok && logPath != "" {
		c.Output.UnfollowLog = logPath
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ghbot.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
