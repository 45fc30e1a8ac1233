package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Channels) != 6 {
		t.Fatalf("expected 6 built-in channels, got %d", len(cfg.Channels))
	}
	want := []string{"BBC", "CNN", "Dawn News", "Fox News", "TRT News", "Al Jazeera"}
	for i, name := range cfg.ChannelNames() {
		if name != want[i] {
			t.Errorf("channel %d: expected %q, got %q", i, want[i], name)
		}
	}
}

func TestLoadMergesChannelOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newspulse.yaml")
	yaml := `
discovery:
  channel_concurrency: 3
logging:
  format: tint
channels:
  - name: cnn
    page_delay: 4s
    max_pages: 2
  - name: Al Jazeera
    consent_selector: "button.accept"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Discovery.ChannelConcurrency != 3 {
		t.Errorf("expected channel_concurrency 3, got %d", cfg.Discovery.ChannelConcurrency)
	}
	if cfg.Logging.Format != "tint" {
		t.Errorf("expected tint format, got %q", cfg.Logging.Format)
	}
	if len(cfg.Channels) != 6 {
		t.Fatalf("overrides must not change the channel set, got %d", len(cfg.Channels))
	}

	cnn := cfg.Channels[1]
	if cnn.Name != "CNN" {
		t.Fatalf("expected canonical name CNN, got %q", cnn.Name)
	}
	if cnn.PageDelay != 4*time.Second {
		t.Errorf("expected page_delay 4s, got %s", cnn.PageDelay)
	}
	if cnn.MaxPages != 2 {
		t.Errorf("expected max_pages 2, got %d", cnn.MaxPages)
	}
	if cnn.CardSelector != `div[data-component-name="card"]` {
		t.Errorf("unset fields should keep defaults, got card_selector %q", cnn.CardSelector)
	}

	aj := cfg.Channels[5]
	if aj.ConsentSelector != "button.accept" {
		t.Errorf("expected consent override, got %q", aj.ConsentSelector)
	}
	if aj.ConsentTimeout != 10*time.Second {
		t.Errorf("expected default consent timeout, got %s", aj.ConsentTimeout)
	}
}

func TestLoadRejectsUnknownChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newspulse.yaml")
	if err := os.WriteFile(path, []byte("channels:\n  - name: Reuters\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown channel") {
		t.Fatalf("expected unknown channel error, got %v", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"zero sessions", func(c *Config) { c.Browser.MaxSessions = 0 }, "max_sessions"},
		{"default above limit", func(c *Config) { c.Discovery.DefaultMaxArticles = 9 }, "default_max_articles"},
		{"bad summarizer", func(c *Config) { c.Analysis.Summarizer = "abstractive" }, "summarizer"},
		{"cloud without summary", func(c *Config) { c.Analysis.WordCloud = true }, "word_cloud"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad storage", func(c *Config) { c.Storage.Type = "parquet" }, "storage.type"},
		{"llm without key", func(c *Config) {
			c.Analysis.Summarize = true
			c.Analysis.Summarizer = "llm"
			c.AI.APIKey = ""
		}, "api_key"},
		{"search url without placeholder", func(c *Config) { c.Channels[0].SearchURL = "https://www.bbc.com/search" }, "{query}"},
		{"bad pagination", func(c *Config) { c.Channels[2].Pagination = "infinite" }, "pagination"},
		{"duplicate channel", func(c *Config) { c.Channels[1].Name = "bbc" }, "twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected error mentioning %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.bbc.com/news/articles/abc", false},
		{"http://example.com", false},
		{"ftp://example.com", true},
		{"/relative/path", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
