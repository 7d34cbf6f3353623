// Package config loads lustro's configuration from the environment and the
// sources file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/terry-li-hm/lustro/internal/classify"
)

// Config holds all configuration for the application.
type Config struct {
	// Directory layout (XDG-style, overridable per directory)
	ConfigDir string
	CacheDir  string
	DataDir   string

	// Owned files
	SourcesPath string
	StatePath   string
	LogPath     string

	Debug bool

	// Alert gating
	MaxAlertsPerDay int
	CooldownMinutes int

	// Log rotation
	MaxLogLines int

	// Collaborator timeouts
	FetchTimeoutSeconds int

	// Timeline CLI
	BirdPath string

	// Alert channels
	TelegramBotToken string
	TelegramChatID   int64
	AlertWebhookURL  string

	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Daemon mode
	Port     string
	Schedule string // "hourly" or "daily"

	// Parsed sources file
	Sources   []Source
	Breaking  classify.Patterns
	Discovery Discovery
}

// Source describes one configured source.
type Source struct {
	Name      string `yaml:"name"`
	RSS       string `yaml:"rss,omitempty"`
	URL       string `yaml:"url,omitempty"`
	Handle    string `yaml:"handle,omitempty"` // timeline account, e.g. "@openai"
	Bookmarks bool   `yaml:"bookmarks,omitempty"`
	Tier      int    `yaml:"tier"`
	Cadence   string `yaml:"cadence,omitempty"`
}

// Discovery configures the home-timeline handle scan.
type Discovery struct {
	Keywords []string `yaml:"keywords"`
	Count    int      `yaml:"count"`
}

// sourcesFile is the YAML layout of sources.yaml.
type sourcesFile struct {
	WebSources []Source          `yaml:"web_sources"`
	XAccounts  []Source          `yaml:"x_accounts"`
	XBookmarks []Source          `yaml:"x_bookmarks"`
	Breaking   classify.Patterns `yaml:"breaking"`
	Discovery  Discovery         `yaml:"x_discovery"`
}

// Cadences maps a fetch cadence to the minimum number of days between
// fetches of the same source.
var Cadences = map[string]int{
	"daily":        0,
	"twice_weekly": 2,
	"weekly":       5,
	"biweekly":     10,
	"monthly":      25,
}

// Load builds the configuration from environment variables and the sources
// file. Validation failures here are fatal: they happen before any fetch.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}

	configDir := getEnv("LUSTRO_CONFIG_DIR", filepath.Join(xdgBase("XDG_CONFIG_HOME", home, ".config"), "lustro"))
	cacheDir := getEnv("LUSTRO_CACHE_DIR", filepath.Join(xdgBase("XDG_CACHE_HOME", home, ".cache"), "lustro"))
	dataDir := getEnv("LUSTRO_DATA_DIR", filepath.Join(xdgBase("XDG_DATA_HOME", home, ".local/share"), "lustro"))

	cfg := &Config{
		ConfigDir:   configDir,
		CacheDir:    cacheDir,
		DataDir:     dataDir,
		SourcesPath: getEnv("LUSTRO_SOURCES", filepath.Join(configDir, "sources.yaml")),
		StatePath:   getEnv("LUSTRO_STATE", filepath.Join(cacheDir, "state.json")),
		LogPath:     getEnv("LUSTRO_LOG", filepath.Join(dataDir, "news.md")),

		Debug: getBoolEnv("DEBUG", false),

		MaxAlertsPerDay:     getIntEnv("LUSTRO_MAX_ALERTS_PER_DAY", 3),
		CooldownMinutes:     getIntEnv("LUSTRO_COOLDOWN_MINUTES", 60),
		MaxLogLines:         getIntEnv("LUSTRO_MAX_LOG_LINES", 500),
		FetchTimeoutSeconds: getIntEnv("LUSTRO_FETCH_TIMEOUT", 30),

		BirdPath: getEnv("LUSTRO_BIRD_PATH", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getInt64Env("TELEGRAM_CHAT_ID", 0),
		AlertWebhookURL:  getEnv("ALERT_WEBHOOK_URL", ""),

		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		Port:     getEnv("PORT", "8080"),
		Schedule: getEnv("LUSTRO_SCHEDULE", "daily"),
	}

	if err := cfg.loadSources(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadSources() error {
	data, err := os.ReadFile(c.SourcesPath)
	if os.IsNotExist(err) {
		data = []byte(DefaultSourcesYAML)
	} else if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse sources file %s: %w", c.SourcesPath, err)
	}

	for i := range sf.XBookmarks {
		sf.XBookmarks[i].Bookmarks = true
		if sf.XBookmarks[i].Name == "" {
			sf.XBookmarks[i].Name = "X Bookmarks"
		}
	}

	c.Sources = nil
	all := append(append(sf.WebSources, sf.XAccounts...), sf.XBookmarks...)
	for _, s := range all {
		if s.Tier == 0 {
			s.Tier = 2
		}
		if s.Cadence == "" {
			s.Cadence = "daily"
		}
		if s.Name == "" && s.Handle != "" {
			s.Name = s.Handle
		}
		c.Sources = append(c.Sources, s)
	}

	c.Breaking = sf.Breaking
	if len(c.Breaking.Entities) == 0 && len(c.Breaking.Actions) == 0 && len(c.Breaking.Negatives) == 0 {
		c.Breaking = DefaultPatterns()
	}

	c.Discovery = sf.Discovery
	if c.Discovery.Count == 0 {
		c.Discovery.Count = 50
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxAlertsPerDay < 0 {
		return fmt.Errorf("LUSTRO_MAX_ALERTS_PER_DAY must not be negative")
	}
	if c.CooldownMinutes < 0 {
		return fmt.Errorf("LUSTRO_COOLDOWN_MINUTES must not be negative")
	}
	if c.MaxLogLines <= 0 {
		return fmt.Errorf("LUSTRO_MAX_LOG_LINES must be positive")
	}
	if c.Schedule != "daily" && c.Schedule != "hourly" {
		return fmt.Errorf("LUSTRO_SCHEDULE must be 'daily' or 'hourly'")
	}

	names := map[string]bool{}
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source with empty name in %s", c.SourcesPath)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate source name %q in %s", s.Name, c.SourcesPath)
		}
		names[s.Name] = true
		if s.Tier < 1 {
			return fmt.Errorf("source %q: tier must be >= 1", s.Name)
		}
		if _, ok := Cadences[s.Cadence]; !ok {
			return fmt.Errorf("source %q: unknown cadence %q", s.Name, s.Cadence)
		}
		if s.RSS == "" && s.URL == "" && s.Handle == "" && !s.Bookmarks {
			return fmt.Errorf("source %q: needs one of rss, url, handle, bookmarks", s.Name)
		}
	}

	// Pattern lists must compile before any fetch happens.
	if _, err := classify.New(c.Breaking); err != nil {
		return err
	}
	for _, pattern := range c.Discovery.Keywords {
		if _, err := regexp.Compile("(?i)" + pattern); err != nil {
			return fmt.Errorf("invalid discovery keyword %q: %w", pattern, err)
		}
	}
	return nil
}

func xdgBase(envName, home, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return filepath.Join(home, fallback)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
