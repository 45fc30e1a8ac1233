package config

import (
	"time"
)

// Pagination kinds understood by link discovery.
const (
	PaginationNextButton = "next_button"
	PaginationLoadMore   = "load_more"
	PaginationIndexed    = "indexed"
)

// Click modes for pagination controls.
const (
	ClickNative = "native"
	ClickScript = "script"
)

// Query space encodings for search URL templates.
const (
	QuerySpacePlus    = "plus"
	QuerySpacePercent = "percent"
)

// XPathPrefix marks a content selector as an XPath expression rather than CSS.
const XPathPrefix = "xpath:"

// ChannelConfig describes how one news outlet is searched and how its articles are read.
// Selector strings are plain data; nothing here is interpreted until discovery or extraction runs.
type ChannelConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	SearchURL  string `mapstructure:"search_url"  yaml:"search_url"` // must contain {query}
	QuerySpace string `mapstructure:"query_space" yaml:"query_space"`

	CardSelector string `mapstructure:"card_selector" yaml:"card_selector"`
	LinkSelector string `mapstructure:"link_selector" yaml:"link_selector"` // empty: the card is the anchor
	LinkPrefix   string `mapstructure:"link_prefix"   yaml:"link_prefix"`

	Pagination     string `mapstructure:"pagination"       yaml:"pagination"`
	NextSelector   string `mapstructure:"next_selector"    yaml:"next_selector"`
	Click          string `mapstructure:"click"            yaml:"click"`
	ScrollIntoView bool   `mapstructure:"scroll_into_view" yaml:"scroll_into_view"`
	WaitStale      bool   `mapstructure:"wait_stale"       yaml:"wait_stale"`

	ConsentSelector string `mapstructure:"consent_selector" yaml:"consent_selector"`

	SettleDelay    time.Duration `mapstructure:"settle_delay"    yaml:"settle_delay"`
	CardTimeout    time.Duration `mapstructure:"card_timeout"    yaml:"card_timeout"`
	NextTimeout    time.Duration `mapstructure:"next_timeout"    yaml:"next_timeout"`
	ConsentTimeout time.Duration `mapstructure:"consent_timeout" yaml:"consent_timeout"`
	StaleTimeout   time.Duration `mapstructure:"stale_timeout"   yaml:"stale_timeout"`
	ScrollPause    time.Duration `mapstructure:"scroll_pause"    yaml:"scroll_pause"`
	PageDelay      time.Duration `mapstructure:"page_delay"      yaml:"page_delay"`
	MaxPages       int           `mapstructure:"max_pages"       yaml:"max_pages"`

	ContentSelector string `mapstructure:"content_selector" yaml:"content_selector"` // empty: whole document
	Separator       string `mapstructure:"separator"        yaml:"separator"`
}

// DefaultChannels returns the six built-in outlets in their display order.
func DefaultChannels() []ChannelConfig {
	return []ChannelConfig{
		{
			Name:            "BBC",
			SearchURL:       "https://www.bbc.com/search?q={query}",
			QuerySpace:      QuerySpacePlus,
			CardSelector:    `div[data-testid="newport-card"]`,
			LinkSelector:    `a[data-testid='internal-link']`,
			LinkPrefix:      "https://www.bbc.com/news/articles",
			Pagination:      PaginationNextButton,
			NextSelector:    `div.sc-faaff782-0 button:has(svg[icon='chevron-right']):not([disabled])`,
			Click:           ClickScript,
			ScrollIntoView:  true,
			WaitStale:       true,
			CardTimeout:     30 * time.Second,
			NextTimeout:     30 * time.Second,
			StaleTimeout:    30 * time.Second,
			ScrollPause:     500 * time.Millisecond,
			PageDelay:       500 * time.Millisecond,
			ContentSelector: "article",
			Separator:       " ",
		},
		{
			Name:            "CNN",
			SearchURL:       "https://edition.cnn.com/search?q={query}&from=0&size=10&page=1&sort=newest&types=article&section=",
			QuerySpace:      QuerySpacePlus,
			CardSelector:    `div[data-component-name="card"]`,
			LinkSelector:    "a.container__link",
			Pagination:      PaginationNextButton,
			NextSelector:    "div.pagination-arrow-right",
			Click:           ClickNative,
			CardTimeout:     15 * time.Second,
			NextTimeout:     15 * time.Second,
			PageDelay:       2 * time.Second,
			ContentSelector: "",
			Separator:       " ",
		},
		{
			Name:            "Dawn News",
			SearchURL:       "https://www.dawn.com/search?cx=016184311056644083324%3Aa1i8yd7zymy&cof=FORID%3A10&ie=UTF-8&q={query}",
			QuerySpace:      QuerySpacePlus,
			CardSelector:    "div.gsc-webResult.gsc-result",
			LinkSelector:    "div.gs-title a.gs-title",
			Pagination:      PaginationIndexed,
			NextSelector:    "div.gsc-cursor-page",
			Click:           ClickScript,
			SettleDelay:     2 * time.Second,
			CardTimeout:     10 * time.Second,
			NextTimeout:     10 * time.Second,
			PageDelay:       2 * time.Second,
			ContentSelector: XPathPrefix + "//div[contains(concat(' ', normalize-space(@class), ' '), ' story__content ')]",
			Separator:       "\n",
		},
		{
			Name:            "Fox News",
			SearchURL:       "https://www.foxnews.com/search-results/search#q={query}",
			QuerySpace:      QuerySpacePercent,
			CardSelector:    "article.article",
			LinkSelector:    "h2.title a",
			Pagination:      PaginationLoadMore,
			NextSelector:    "div.button.load-more a",
			Click:           ClickScript,
			CardTimeout:     10 * time.Second,
			NextTimeout:     10 * time.Second,
			PageDelay:       3 * time.Second,
			MaxPages:        5,
			ContentSelector: "main",
			Separator:       "\n",
		},
		{
			Name:            "TRT News",
			SearchURL:       "https://www.trtworld.com/search?q={query}",
			QuerySpace:      QuerySpacePercent,
			CardSelector:    "div.Card.Card-Search",
			LinkSelector:    "a",
			Pagination:      PaginationLoadMore,
			NextSelector:    ".btn-loadmore",
			Click:           ClickScript,
			SettleDelay:     2 * time.Second,
			CardTimeout:     10 * time.Second,
			NextTimeout:     10 * time.Second,
			PageDelay:       3 * time.Second,
			ContentSelector: "",
			Separator:       " ",
		},
		{
			Name:            "Al Jazeera",
			SearchURL:       "https://www.aljazeera.com/search/{query}",
			QuerySpace:      QuerySpacePercent,
			CardSelector:    "article.gc.u-clickable-card",
			LinkSelector:    "a.u-clickable-card__link",
			Pagination:      PaginationLoadMore,
			NextSelector:    "button.show-more-button.grid-full-width",
			Click:           ClickScript,
			ConsentSelector: "button#onetrust-accept-btn-handler",
			ConsentTimeout:  10 * time.Second,
			SettleDelay:     2 * time.Second,
			CardTimeout:     10 * time.Second,
			NextTimeout:     10 * time.Second,
			PageDelay:       5 * time.Second,
			ContentSelector: "main",
			Separator:       "\n",
		},
	}
}

// ChannelNames returns the configured channel names in order.
func (c *Config) ChannelNames() []string {
	names := make([]string, 0, len(c.Channels))
	for _, ch := range c.Channels {
		names = append(names, ch.Name)
	}
	return names
}
