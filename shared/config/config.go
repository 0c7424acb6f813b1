package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Inbox      InboxConfig      `yaml:"inbox"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Schedule   string           `yaml:"schedule"`
}

type AnalyzerConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIToken string `yaml:"api_token" env:"ANALYZER_API_TOKEN"`
	// RequestTimeoutSeconds bounds one submission made by the inbox agent; 0 means no limit
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

type InboxConfig struct {
	Dir        string `yaml:"dir"`
	CaptionExt string `yaml:"caption_ext"`
	DataDir    string `yaml:"data_dir"`
	TrackDays  int    `yaml:"track_days"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether reports should be emailed
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel maps the configured level name to a slog level, defaulting to info
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads CONFIG_FILE (config.yaml by default) after loading .env. A missing default
// config file is not an error: the one-shot analyze command runs on defaults alone.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	explicit := configFile != ""
	if !explicit {
		configFile = defaultConfigFile
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.Analyzer.APIToken == "" {
		cfg.Analyzer.APIToken = os.Getenv("ANALYZER_API_TOKEN")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Inbox.CaptionExt == "" {
		c.Inbox.CaptionExt = ".txt"
	}
	if !strings.HasPrefix(c.Inbox.CaptionExt, ".") {
		c.Inbox.CaptionExt = "." + c.Inbox.CaptionExt
	}
	if c.Inbox.DataDir == "" {
		c.Inbox.DataDir = "data"
	}
	if c.Inbox.TrackDays == 0 {
		c.Inbox.TrackDays = 30
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 */15 * * * *" // every 15 minutes
	}
}

func (c *Config) validate() error {
	// an empty endpoint means the hosted analyzer
	if e := c.Analyzer.Endpoint; e != "" && !strings.HasPrefix(e, "http://") && !strings.HasPrefix(e, "https://") {
		return fmt.Errorf("analyzer endpoint must be an http(s) URL, got %q", c.Analyzer.Endpoint)
	}
	if c.Analyzer.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("analyzer.request_timeout_seconds cannot be negative")
	}
	if c.Inbox.TrackDays < 0 {
		return fmt.Errorf("inbox.track_days cannot be negative")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}
	if c.Email.Enabled() {
		if c.Email.Username == "" {
			return fmt.Errorf("Email username is required (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("Email password is required (set EMAIL_PASSWORD or email.password)")
		}
		if c.Email.FromEmail == "" || c.Email.ToEmail == "" {
			return fmt.Errorf("email.from_email and email.to_email are required when email.smtp_server is set")
		}
	}
	return nil
}
