// Package channel maps channel names to their discovery and extraction
// strategies. The registry is built once at start-up and is read-only after.
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/IshaanNene/NewsPulse/internal/browser"
	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/discovery"
	"github.com/IshaanNene/NewsPulse/internal/extract"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Discoverer finds article links for a query.
type Discoverer interface {
	Discover(ctx context.Context, q types.SearchQuery) discovery.Result
}

// Extractor reads the body text of one article.
type Extractor interface {
	Extract(ctx context.Context, url string) extract.Result
}

// Channel is the capability pair of one news outlet.
type Channel struct {
	Name       string
	Discoverer Discoverer
	Extractor  Extractor
}

// Registry dispatches calls to registered channels by name.
type Registry struct {
	mu          sync.RWMutex
	channels    map[string]*Channel
	order       []string
	maxArticles int
	maxPages    int
	logger      *slog.Logger
}

// NewRegistry creates an empty registry. maxArticles and maxPages are used by
// LinksFor, which takes no explicit limits.
func NewRegistry(maxArticles, maxPages int, logger *slog.Logger) *Registry {
	return &Registry{
		channels:    make(map[string]*Channel),
		maxArticles: maxArticles,
		maxPages:    maxPages,
		logger:      logger.With("component", "channel_registry"),
	}
}

// Register adds a channel. Names are unique.
func (r *Registry) Register(ch *Channel) error {
	if ch == nil || strings.TrimSpace(ch.Name) == "" {
		return fmt.Errorf("register channel: name is required")
	}
	if ch.Discoverer == nil || ch.Extractor == nil {
		return fmt.Errorf("register channel %q: discoverer and extractor are required", ch.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[ch.Name]; exists {
		return fmt.Errorf("register channel %q: %w", ch.Name, types.ErrDuplicate)
	}
	r.channels[ch.Name] = ch
	r.order = append(r.order, ch.Name)
	return nil
}

// Names returns channel names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the named channel.
func (r *Registry) Lookup(name string) (*Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[name]
	return ch, ok
}

// Discover runs the channel's link discovery. An unknown channel yields a
// failed result wrapping types.ErrUnknownChannel.
func (r *Registry) Discover(ctx context.Context, name string, q types.SearchQuery) discovery.Result {
	ch, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("unknown channel", "channel", name)
		return discovery.Result{
			Channel: name,
			Status:  discovery.StatusFailed,
			Err:     fmt.Errorf("%q: %w", name, types.ErrUnknownChannel),
		}
	}
	q.Channel = ch.Name
	return ch.Discoverer.Discover(ctx, q)
}

// Extract runs the channel's article extraction. An unknown channel yields
// an empty result wrapping types.ErrUnknownChannel.
func (r *Registry) Extract(ctx context.Context, name, url string) extract.Result {
	ch, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("unknown channel", "channel", name)
		return extract.Result{
			URL:    url,
			Status: extract.StatusFetchFailed,
			Err:    fmt.Errorf("%q: %w", name, types.ErrUnknownChannel),
		}
	}
	return ch.Extractor.Extract(ctx, url)
}

// LinksFor returns up to the default number of article links for topic.
// It returns nil for an unknown channel or a failed discovery.
func (r *Registry) LinksFor(ctx context.Context, name, topic string) []string {
	res := r.Discover(ctx, name, types.SearchQuery{
		Topic:       topic,
		MaxArticles: r.maxArticles,
		MaxPages:    r.maxPages,
	})
	return res.Links
}

// TextFor returns the article body at url, or "" when extraction fails or the
// channel is unknown.
func (r *Registry) TextFor(ctx context.Context, url, name string) string {
	return r.Extract(ctx, name, url).Text
}

// Build creates a registry holding every configured channel. Discovery shares
// src for browser sessions and extraction shares f for HTTP.
func Build(cfg *config.Config, src browser.Source, f fetcher.Fetcher, logger *slog.Logger) (*Registry, error) {
	reg := NewRegistry(cfg.Discovery.DefaultMaxArticles, cfg.Discovery.DefaultMaxPages, logger)
	for _, profile := range cfg.Channels {
		ch := &Channel{
			Name: profile.Name,
			Discoverer: discovery.New(profile, src, logger,
				discovery.WithDefaultMaxPages(cfg.Discovery.DefaultMaxPages)),
			Extractor: extract.New(profile, f, logger,
				extract.WithReadabilityFallback(cfg.Extract.ReadabilityFallback)),
		}
		if err := reg.Register(ch); err != nil {
			return nil, err
		}
	}
	reg.logger.Debug("channel registry built", "channels", len(reg.order))
	return reg, nil
}
