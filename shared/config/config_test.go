package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FileWithEnvFallbacks", func(t *testing.T) {
		path := writeConfig(t, `
analyzer:
  endpoint: http://localhost:9000/upload-reel/
  request_timeout_seconds: 90
inbox:
  dir: /tmp/reels
  caption_ext: caption
email:
  smtp_server: smtp.example.com
  from_email: bot@example.com
  to_email: me@example.com
logging:
  level: debug
`)
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("ANALYZER_API_TOKEN", "token-from-env")
		t.Setenv("EMAIL_USERNAME", "user")
		t.Setenv("EMAIL_PASSWORD", "pass")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Analyzer.Endpoint != "http://localhost:9000/upload-reel/" {
			t.Errorf("Endpoint = %q", cfg.Analyzer.Endpoint)
		}
		if cfg.Analyzer.APIToken != "token-from-env" {
			t.Errorf("APIToken = %q, want token-from-env", cfg.Analyzer.APIToken)
		}
		if cfg.Analyzer.RequestTimeoutSeconds != 90 {
			t.Errorf("RequestTimeoutSeconds = %d, want 90", cfg.Analyzer.RequestTimeoutSeconds)
		}
		if cfg.Inbox.CaptionExt != ".caption" {
			t.Errorf("CaptionExt = %q, want .caption", cfg.Inbox.CaptionExt)
		}
		if cfg.Email.SMTPPort != 587 {
			t.Errorf("SMTPPort = %d, want 587", cfg.Email.SMTPPort)
		}
		if !cfg.Email.Enabled() {
			t.Error("email should be enabled")
		}
		if cfg.Logging.SlogLevel() != slog.LevelDebug {
			t.Errorf("SlogLevel() = %v, want debug", cfg.Logging.SlogLevel())
		}
	})

	t.Run("MissingDefaultFileUsesDefaults", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Getwd() error = %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("Chdir() error = %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		t.Setenv("CONFIG_FILE", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Analyzer.Endpoint != "" {
			t.Errorf("Endpoint = %q, want empty", cfg.Analyzer.Endpoint)
		}
		if cfg.Inbox.CaptionExt != ".txt" || cfg.Inbox.DataDir != "data" || cfg.Inbox.TrackDays != 30 {
			t.Errorf("Inbox defaults = %+v", cfg.Inbox)
		}
		if cfg.Schedule != "0 */15 * * * *" {
			t.Errorf("Schedule = %q", cfg.Schedule)
		}
		if cfg.Monitoring.HealthPort != 8080 {
			t.Errorf("HealthPort = %d, want 8080", cfg.Monitoring.HealthPort)
		}
		if cfg.Email.Enabled() {
			t.Error("email should be disabled by default")
		}
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := Load(); err == nil {
			t.Error("Load() should fail when CONFIG_FILE does not exist")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"Bad endpoint", func(c *Config) { c.Analyzer.Endpoint = "ftp://x" }, true},
		{"Negative timeout", func(c *Config) { c.Analyzer.RequestTimeoutSeconds = -1 }, true},
		{"Bad schedule", func(c *Config) { c.Schedule = "every day" }, true},
		{"Email without credentials", func(c *Config) {
			c.Email.SMTPServer = "smtp.example.com"
			c.Email.FromEmail = "a@example.com"
			c.Email.ToEmail = "b@example.com"
		}, true},
		{"Email complete", func(c *Config) {
			c.Email = EmailConfig{SMTPServer: "smtp.example.com", SMTPPort: 587, Username: "u", Password: "p",
				FromEmail: "a@example.com", ToEmail: "b@example.com"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
