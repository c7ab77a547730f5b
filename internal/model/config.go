package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// BasketConfig holds the business rules for the cucumber basket suite.
type BasketConfig struct {
	// Capacity is the fixed maximum number of cucumbers per basket.
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// SearchConfig holds the endpoints of the search collaborators.
type SearchConfig struct {
	// APIBaseURL is the root URL of the instant-answer JSON API.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// WebBaseURL is the root URL of the HTML search endpoint.
	WebBaseURL string `mapstructure:"web_base_url" yaml:"web_base_url"`

	// TimeoutSec is the per-request timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// JiraConfig holds the settings for reporting run results to Jira.
// The API token is not stored here; it lives in the system keyring or
// the JIRA_TOKEN environment variable.
type JiraConfig struct {
	Server     string `mapstructure:"server" yaml:"server"`
	Email      string `mapstructure:"email" yaml:"email"`
	ProjectKey string `mapstructure:"project_key" yaml:"project_key"`
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// Configured reports whether every field needed to reach Jira is set.
func (c JiraConfig) Configured() bool {
	return c.Server != "" && c.Email != "" && c.ProjectKey != ""
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Basket  BasketConfig  `mapstructure:"basket" yaml:"basket"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// WatchIntervalSec is how often (in seconds) watch mode re-runs
	// the registered suites.
	WatchIntervalSec int `mapstructure:"watch_interval_sec" yaml:"watch_interval_sec"`

	// DatabasePath is where the run history is stored.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/cucumberbasket/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "cucumberbasket", "config.yaml")
}

// DefaultDatabasePath returns the default location of the run-history
// database, next to the config file.
func DefaultDatabasePath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "runs.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Basket: BasketConfig{Capacity: 20},
		Search: SearchConfig{
			APIBaseURL: "https://api.duckduckgo.com",
			WebBaseURL: "https://html.duckduckgo.com/html",
			TimeoutSec: 30,
		},
		Display:          DisplayConfig{Theme: "default"},
		WatchIntervalSec: 300,
		DatabasePath:     DefaultDatabasePath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables override file values the way the equivalent
// dotenv keys did: BASKET_CAPACITY, DDG_API_URL, DDG_WEB_URL,
// JIRA_SERVER, JIRA_EMAIL, JIRA_PROJECT_KEY.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("basket.capacity", 20)
	v.SetDefault("search.api_base_url", "https://api.duckduckgo.com")
	v.SetDefault("search.web_base_url", "https://html.duckduckgo.com/html")
	v.SetDefault("search.timeout_sec", 30)
	v.SetDefault("display.theme", "default")
	v.SetDefault("watch_interval_sec", 300)
	v.SetDefault("database_path", DefaultDatabasePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return applyEnvOverrides(defaultAppConfig()), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return applyEnvOverrides(defaultAppConfig()), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return applyEnvOverrides(cfg), nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *AppConfig) *AppConfig {
	if raw := os.Getenv("BASKET_CAPACITY"); raw != "" {
		if capacity, err := strconv.Atoi(raw); err == nil && capacity > 0 {
			cfg.Basket.Capacity = capacity
		}
	}
	if url := os.Getenv("DDG_API_URL"); url != "" {
		cfg.Search.APIBaseURL = url
	}
	if url := os.Getenv("DDG_WEB_URL"); url != "" {
		cfg.Search.WebBaseURL = url
	}
	if server := os.Getenv("JIRA_SERVER"); server != "" {
		cfg.Jira.Server = server
	}
	if email := os.Getenv("JIRA_EMAIL"); email != "" {
		cfg.Jira.Email = email
	}
	if key := os.Getenv("JIRA_PROJECT_KEY"); key != "" {
		cfg.Jira.ProjectKey = key
	}
	return cfg
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("basket", cfg.Basket)
	v.Set("search", cfg.Search)
	v.Set("jira", cfg.Jira)
	v.Set("display", cfg.Display)
	v.Set("watch_interval_sec", cfg.WatchIntervalSec)
	v.Set("database_path", cfg.DatabasePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
