package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env is the normal case.
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("NEWSPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newspulse")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newspulse"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	channels, err := mergeChannels(DefaultChannels(), v.Get("channels"))
	if err != nil {
		return nil, err
	}
	cfg.Channels = channels

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	return Load(path)
}

// mergeChannels overlays user channel entries onto the built-in channels, matched by name.
// Entries only override fields they set; channels cannot be added.
func mergeChannels(base []ChannelConfig, raw any) ([]ChannelConfig, error) {
	if raw == nil {
		return base, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("channels must be a list, got %T", raw)
	}

	for i, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("channels[%d] must be a mapping, got %T", i, entry)
		}
		name, _ := fields["name"].(string)
		idx := indexOfChannel(base, name)
		if idx < 0 {
			return nil, fmt.Errorf("channels[%d]: unknown channel %q", i, name)
		}

		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           &base[idx],
		})
		if err != nil {
			return nil, fmt.Errorf("channels[%d]: %w", i, err)
		}
		if err := dec.Decode(fields); err != nil {
			return nil, fmt.Errorf("channels[%d] (%s): %w", i, name, err)
		}
		// keep the canonical spelling
		base[idx].Name = DefaultChannels()[idx].Name
	}
	return base, nil
}

func indexOfChannel(channels []ChannelConfig, name string) int {
	for i, ch := range channels {
		if strings.EqualFold(ch.Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)
	v.SetDefault("browser.page_load_timeout", cfg.Browser.PageLoadTimeout)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.max_sessions", cfg.Browser.MaxSessions)
	v.SetDefault("browser.window_size", cfg.Browser.WindowSize)

	v.SetDefault("fetcher.timeout", cfg.Fetcher.Timeout)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.tls_insecure", cfg.Fetcher.TLSInsecure)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)

	v.SetDefault("discovery.default_max_articles", cfg.Discovery.DefaultMaxArticles)
	v.SetDefault("discovery.max_articles_limit", cfg.Discovery.MaxArticlesLimit)
	v.SetDefault("discovery.default_max_pages", cfg.Discovery.DefaultMaxPages)
	v.SetDefault("discovery.channel_concurrency", cfg.Discovery.ChannelConcurrency)

	v.SetDefault("extract.readability_fallback", cfg.Extract.ReadabilityFallback)

	v.SetDefault("analysis.summarize", cfg.Analysis.Summarize)
	v.SetDefault("analysis.word_cloud", cfg.Analysis.WordCloud)
	v.SetDefault("analysis.summarizer", cfg.Analysis.Summarizer)
	v.SetDefault("analysis.truncate_words", cfg.Analysis.TruncateWords)
	v.SetDefault("analysis.chunk_words", cfg.Analysis.ChunkWords)
	v.SetDefault("analysis.summary_sentences", cfg.Analysis.SummarySentences)
	v.SetDefault("analysis.keywords_top_n", cfg.Analysis.KeywordsTopN)
	v.SetDefault("analysis.positive_threshold", cfg.Analysis.PositiveThreshold)
	v.SetDefault("analysis.negative_threshold", cfg.Analysis.NegativeThreshold)

	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.endpoint", cfg.AI.Endpoint)
	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.max_tokens", cfg.AI.MaxTokens)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)
	v.SetDefault("ai.requests_per_minute", cfg.AI.RequestsPerMinute)

	v.SetDefault("report.output_path", cfg.Report.OutputPath)
	v.SetDefault("report.title", cfg.Report.Title)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("server.addr", cfg.Server.Addr)
}
