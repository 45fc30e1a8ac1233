package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// DefaultUserAgent is the desktop Chrome identity used by both the browser and the HTTP fetcher.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config is the root configuration for NewsPulse.
type Config struct {
	Browser   BrowserConfig   `mapstructure:"browser"   yaml:"browser"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Extract   ExtractConfig   `mapstructure:"extract"   yaml:"extract"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	AI        AIConfig        `mapstructure:"ai"        yaml:"ai"`
	Report    ReportConfig    `mapstructure:"report"    yaml:"report"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
	Channels  []ChannelConfig `mapstructure:"channels"  yaml:"channels"`
}

// BrowserConfig controls the headless Chromium sessions used for link discovery.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"          yaml:"headless"`
	Bin             string        `mapstructure:"bin"               yaml:"bin"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	MaxSessions     int           `mapstructure:"max_sessions"      yaml:"max_sessions"`
	WindowSize      string        `mapstructure:"window_size"       yaml:"window_size"`
}

// FetcherConfig controls the plain HTTP fetcher used for article pages.
type FetcherConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"           yaml:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// DiscoveryConfig controls link discovery across channels.
type DiscoveryConfig struct {
	DefaultMaxArticles int `mapstructure:"default_max_articles" yaml:"default_max_articles"`
	MaxArticlesLimit   int `mapstructure:"max_articles_limit"   yaml:"max_articles_limit"`
	DefaultMaxPages    int `mapstructure:"default_max_pages"    yaml:"default_max_pages"`
	ChannelConcurrency int `mapstructure:"channel_concurrency"  yaml:"channel_concurrency"`
}

// ExtractConfig controls article body extraction.
type ExtractConfig struct {
	ReadabilityFallback bool `mapstructure:"readability_fallback" yaml:"readability_fallback"`
}

// AnalysisConfig controls the per-article analysis stages.
type AnalysisConfig struct {
	Summarize         bool    `mapstructure:"summarize"          yaml:"summarize"`
	WordCloud         bool    `mapstructure:"word_cloud"         yaml:"word_cloud"`
	Summarizer        string  `mapstructure:"summarizer"         yaml:"summarizer"` // extractive, llm
	TruncateWords     int     `mapstructure:"truncate_words"     yaml:"truncate_words"`
	ChunkWords        int     `mapstructure:"chunk_words"        yaml:"chunk_words"`
	SummarySentences  int     `mapstructure:"summary_sentences"  yaml:"summary_sentences"`
	KeywordsTopN      int     `mapstructure:"keywords_top_n"     yaml:"keywords_top_n"`
	PositiveThreshold float64 `mapstructure:"positive_threshold" yaml:"positive_threshold"`
	NegativeThreshold float64 `mapstructure:"negative_threshold" yaml:"negative_threshold"`
}

// AIConfig controls LLM integration for the llm summarizer.
type AIConfig struct {
	Provider          string  `mapstructure:"provider"            yaml:"provider"`
	Model             string  `mapstructure:"model"               yaml:"model"`
	Endpoint          string  `mapstructure:"endpoint"            yaml:"endpoint"`
	APIKey            string  `mapstructure:"api_key"             yaml:"-"`
	MaxTokens         int     `mapstructure:"max_tokens"          yaml:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"         yaml:"temperature"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// ReportConfig controls the HTML report.
type ReportConfig struct {
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	Title      string `mapstructure:"title"       yaml:"title"`
}

// StorageConfig controls export of a finished run.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text, json, tint
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// ServerConfig controls the local form server.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:        true,
			UserAgent:       DefaultUserAgent,
			PageLoadTimeout: 45 * time.Second,
			Stealth:         true,
			MaxSessions:     2,
			WindowSize:      "1366,768",
		},
		Fetcher: FetcherConfig{
			Timeout:         15 * time.Second,
			UserAgent:       DefaultUserAgent,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			MaxRedirects:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    20,
		},
		Discovery: DiscoveryConfig{
			DefaultMaxArticles: 5,
			MaxArticlesLimit:   5,
			DefaultMaxPages:    10,
			ChannelConcurrency: 1,
		},
		Analysis: AnalysisConfig{
			Summarize:         false,
			WordCloud:         false,
			Summarizer:        "extractive",
			TruncateWords:     900,
			ChunkWords:        900,
			SummarySentences:  3,
			KeywordsTopN:      50,
			PositiveThreshold: 0.05,
			NegativeThreshold: -0.05,
		},
		AI: AIConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			MaxTokens:         200,
			Temperature:       0.3,
			RequestsPerMinute: 30,
		},
		Report: ReportConfig{
			OutputPath: "./output/report.html",
			Title:      "News Sentiment Analysis",
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Channels: DefaultChannels(),
	}
}
