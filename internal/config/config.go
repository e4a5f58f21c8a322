package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Input struct {
		File string `yaml:"file"`
	} `yaml:"input"`

	Output struct {
		File string `yaml:"file"`
	} `yaml:"output"`

	Browser struct {
		ProfileDir    string   `yaml:"profile_dir"`
		ProfileName   string   `yaml:"profile_name"`
		CloseExisting bool     `yaml:"close_existing"`
		UserAgents    []string `yaml:"user_agents"`
	} `yaml:"browser"`

	Waits struct {
		LoadSeconds       int `yaml:"load_seconds"`
		ExtensionSeconds  int `yaml:"extension_seconds"`
		ProcessingSeconds int `yaml:"processing_seconds"`
		TabContentSeconds int `yaml:"tab_content_seconds"`
		AllContentSeconds int `yaml:"all_content_seconds"`
		RecoverySeconds   int `yaml:"recovery_seconds"`
	} `yaml:"waits"`

	Extraction struct {
		MinContentLength    int `yaml:"min_content_length"`
		MaxRetries          int `yaml:"max_retries"`
		RetryBackoffSeconds int `yaml:"retry_backoff_seconds"`
	} `yaml:"extraction"`

	RateLimit struct {
		NavigationsPerMinute int `yaml:"navigations_per_minute"`
	} `yaml:"rate_limit"`

	Selectors Selectors `yaml:"selectors"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	History struct {
		Database string `yaml:"database"`
	} `yaml:"history"`

	Diagnostics struct {
		Dir                    string `yaml:"dir"`
		CleanupIntervalMinutes int    `yaml:"cleanup_interval_minutes"`
		MaxAgeHours            int    `yaml:"max_age_hours"`
	} `yaml:"diagnostics"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`
}

// Default returns the configuration used when no file or field overrides it.
func Default() *Config {
	cfg := &Config{}

	cfg.Input.File = "video_urls.txt"
	cfg.Output.File = "eightify_data.json"

	cfg.Browser.ProfileName = "Default"
	cfg.Browser.CloseExisting = true
	cfg.Browser.UserAgents = defaultUserAgents()

	cfg.Waits.LoadSeconds = 15
	cfg.Waits.ExtensionSeconds = 10
	cfg.Waits.ProcessingSeconds = 20
	cfg.Waits.TabContentSeconds = 5
	cfg.Waits.AllContentSeconds = 10
	cfg.Waits.RecoverySeconds = 3

	cfg.Extraction.MinContentLength = 50
	cfg.Extraction.MaxRetries = 2
	cfg.Extraction.RetryBackoffSeconds = 5

	cfg.RateLimit.NavigationsPerMinute = 6

	cfg.Selectors = DefaultSelectors()

	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8900

	cfg.History.Database = "scraper_history.db"

	cfg.Diagnostics.Dir = "diagnostics"
	cfg.Diagnostics.CleanupIntervalMinutes = 60
	cfg.Diagnostics.MaxAgeHours = 72

	cfg.GoogleDrive.CredentialsFile = "credentials.json"
	cfg.GoogleDrive.TokenFile = "token.json"
	cfg.GoogleDrive.FolderName = "Eightify Scrapes"

	return cfg
}

// Load reads the YAML config at path on top of the defaults. A missing
// file is not an error: defaults apply unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %v", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	cfg.Selectors.fillEmpty(DefaultSelectors())
	if len(cfg.Browser.UserAgents) == 0 {
		cfg.Browser.UserAgents = defaultUserAgents()
	}

	return cfg, nil
}

// Wait duration helpers, config stores plain seconds.

func (c *Config) LoadWait() time.Duration {
	return time.Duration(c.Waits.LoadSeconds) * time.Second
}

func (c *Config) ExtensionWait() time.Duration {
	return time.Duration(c.Waits.ExtensionSeconds) * time.Second
}

func (c *Config) ProcessingWait() time.Duration {
	return time.Duration(c.Waits.ProcessingSeconds) * time.Second
}

func (c *Config) TabContentWait() time.Duration {
	return time.Duration(c.Waits.TabContentSeconds) * time.Second
}

func (c *Config) AllContentWait() time.Duration {
	return time.Duration(c.Waits.AllContentSeconds) * time.Second
}

func (c *Config) RecoveryWait() time.Duration {
	return time.Duration(c.Waits.RecoverySeconds) * time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Extraction.RetryBackoffSeconds) * time.Second
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	}
}
