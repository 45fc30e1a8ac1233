package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Browser.PageLoadTimeout <= 0 {
		return fmt.Errorf("browser.page_load_timeout must be > 0")
	}
	if cfg.Browser.MaxSessions < 1 {
		return fmt.Errorf("browser.max_sessions must be >= 1, got %d", cfg.Browser.MaxSessions)
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Discovery.MaxArticlesLimit < 1 {
		return fmt.Errorf("discovery.max_articles_limit must be >= 1, got %d", cfg.Discovery.MaxArticlesLimit)
	}
	if cfg.Discovery.DefaultMaxArticles < 1 || cfg.Discovery.DefaultMaxArticles > cfg.Discovery.MaxArticlesLimit {
		return fmt.Errorf("discovery.default_max_articles must be 1-%d, got %d",
			cfg.Discovery.MaxArticlesLimit, cfg.Discovery.DefaultMaxArticles)
	}
	if cfg.Discovery.DefaultMaxPages < 1 {
		return fmt.Errorf("discovery.default_max_pages must be >= 1, got %d", cfg.Discovery.DefaultMaxPages)
	}
	if cfg.Discovery.ChannelConcurrency < 1 {
		return fmt.Errorf("discovery.channel_concurrency must be >= 1, got %d", cfg.Discovery.ChannelConcurrency)
	}

	if cfg.Analysis.Summarizer != "extractive" && cfg.Analysis.Summarizer != "llm" {
		return fmt.Errorf("analysis.summarizer must be 'extractive' or 'llm', got %q", cfg.Analysis.Summarizer)
	}
	if cfg.Analysis.TruncateWords < 1 {
		return fmt.Errorf("analysis.truncate_words must be >= 1, got %d", cfg.Analysis.TruncateWords)
	}
	if cfg.Analysis.ChunkWords < 1 {
		return fmt.Errorf("analysis.chunk_words must be >= 1, got %d", cfg.Analysis.ChunkWords)
	}
	if cfg.Analysis.KeywordsTopN < 1 {
		return fmt.Errorf("analysis.keywords_top_n must be >= 1, got %d", cfg.Analysis.KeywordsTopN)
	}
	if cfg.Analysis.NegativeThreshold >= cfg.Analysis.PositiveThreshold {
		return fmt.Errorf("analysis.negative_threshold (%v) must be below analysis.positive_threshold (%v)",
			cfg.Analysis.NegativeThreshold, cfg.Analysis.PositiveThreshold)
	}
	if cfg.Analysis.WordCloud && !cfg.Analysis.Summarize {
		return fmt.Errorf("analysis.word_cloud requires analysis.summarize")
	}

	if cfg.Analysis.Summarize && cfg.Analysis.Summarizer == "llm" {
		validProviders := map[string]bool{"ollama": true, "openai": true, "custom": true}
		if !validProviders[cfg.AI.Provider] {
			return fmt.Errorf("ai.provider must be ollama/openai/custom, got %q", cfg.AI.Provider)
		}
		if cfg.AI.Provider == "openai" && cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key (or OPENAI_API_KEY) is required for the openai provider")
		}
		if cfg.AI.Provider != "openai" && cfg.AI.Endpoint == "" {
			return fmt.Errorf("ai.endpoint is required for the %s provider", cfg.AI.Provider)
		}
		if cfg.AI.RequestsPerMinute < 1 {
			return fmt.Errorf("ai.requests_per_minute must be >= 1, got %d", cfg.AI.RequestsPerMinute)
		}
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "csv": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv)", cfg.Storage.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true, "tint": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'text', 'json' or 'tint', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", cfg.Server.Addr, err)
	}

	if len(cfg.Channels) == 0 {
		return fmt.Errorf("at least one channel must be configured")
	}
	seen := make(map[string]bool, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		if err := ValidateChannel(ch); err != nil {
			return err
		}
		key := strings.ToLower(ch.Name)
		if seen[key] {
			return fmt.Errorf("channel %q is configured twice", ch.Name)
		}
		seen[key] = true
	}

	return nil
}

// ValidateChannel checks a single channel definition.
func ValidateChannel(ch ChannelConfig) error {
	if strings.TrimSpace(ch.Name) == "" {
		return fmt.Errorf("channel name must not be empty")
	}
	if !strings.Contains(ch.SearchURL, "{query}") {
		return fmt.Errorf("channel %s: search_url must contain {query}", ch.Name)
	}
	if err := ValidateURL(strings.ReplaceAll(ch.SearchURL, "{query}", "x")); err != nil {
		return fmt.Errorf("channel %s: search_url: %w", ch.Name, err)
	}
	if ch.QuerySpace != QuerySpacePlus && ch.QuerySpace != QuerySpacePercent {
		return fmt.Errorf("channel %s: query_space must be %q or %q, got %q",
			ch.Name, QuerySpacePlus, QuerySpacePercent, ch.QuerySpace)
	}
	if ch.CardSelector == "" {
		return fmt.Errorf("channel %s: card_selector must not be empty", ch.Name)
	}
	switch ch.Pagination {
	case PaginationNextButton, PaginationLoadMore, PaginationIndexed:
	default:
		return fmt.Errorf("channel %s: pagination %q is not supported", ch.Name, ch.Pagination)
	}
	if ch.NextSelector == "" {
		return fmt.Errorf("channel %s: next_selector must not be empty", ch.Name)
	}
	if ch.Click != ClickNative && ch.Click != ClickScript {
		return fmt.Errorf("channel %s: click must be %q or %q, got %q", ch.Name, ClickNative, ClickScript, ch.Click)
	}
	if ch.CardTimeout <= 0 || ch.NextTimeout <= 0 {
		return fmt.Errorf("channel %s: card_timeout and next_timeout must be > 0", ch.Name)
	}
	if ch.WaitStale && ch.StaleTimeout <= 0 {
		return fmt.Errorf("channel %s: stale_timeout must be > 0 when wait_stale is set", ch.Name)
	}
	if ch.ConsentSelector != "" && ch.ConsentTimeout <= 0 {
		return fmt.Errorf("channel %s: consent_timeout must be > 0 when consent_selector is set", ch.Name)
	}
	if ch.MaxPages < 0 {
		return fmt.Errorf("channel %s: max_pages must be >= 0", ch.Name)
	}
	if ch.Separator == "" {
		return fmt.Errorf("channel %s: separator must not be empty", ch.Name)
	}
	return nil
}

// ValidateURL checks if a URL string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
