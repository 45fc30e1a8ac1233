// Package discovery finds article links on a news outlet's search listing.
//
// Every outlet runs the same skeleton: open the search page, dismiss an
// optional consent overlay, then collect links page by page until the cap is
// reached or pagination runs out. What differs between outlets is data held
// in the channel profile.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/browser"
	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Status says why a discovery run ended.
type Status string

const (
	// StatusCapped means max_articles links were collected.
	StatusCapped Status = "capped"
	// StatusExhausted means pagination ran out before the cap.
	StatusExhausted Status = "exhausted"
	// StatusNoResults means the first listing showed no cards.
	StatusNoResults Status = "no_results"
	// StatusTruncated means an unexpected failure ended the run early.
	StatusTruncated Status = "truncated"
	// StatusFailed means the run never reached the listing.
	StatusFailed Status = "failed"
)

// Result is the outcome of one discovery run. Links are unique, in first-seen
// order, and never more than the requested cap.
type Result struct {
	Channel string
	Links   []string
	Status  Status
	Pages   int
	Err     error
}

// OK reports whether the run finished without an unexpected failure.
func (r Result) OK() bool {
	return r.Status == StatusCapped || r.Status == StatusExhausted || r.Status == StatusNoResults
}

// Discoverer runs link discovery for one channel.
type Discoverer struct {
	profile         config.ChannelConfig
	browsers        browser.Source
	defaultMaxPages int
	sleep           func(context.Context, time.Duration) error
	logger          *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithSleeper replaces the delay function used between pagination steps.
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(d *Discoverer) { d.sleep = fn }
}

// WithDefaultMaxPages sets the page budget used when neither the query nor
// the profile sets one.
func WithDefaultMaxPages(n int) Option {
	return func(d *Discoverer) { d.defaultMaxPages = n }
}

// New creates a Discoverer for profile that takes browser sessions from src.
func New(profile config.ChannelConfig, src browser.Source, logger *slog.Logger, opts ...Option) *Discoverer {
	d := &Discoverer{
		profile:         profile,
		browsers:        src,
		defaultMaxPages: 10,
		sleep:           sleep,
		logger:          logger.With("component", "discovery", "channel", profile.Name),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the channel name.
func (d *Discoverer) Name() string { return d.profile.Name }

// MaxPages returns the page budget applied when a query leaves it unset.
func (d *Discoverer) MaxPages() int {
	if d.profile.MaxPages > 0 {
		return d.profile.MaxPages
	}
	return d.defaultMaxPages
}

// Discover collects up to q.MaxArticles links for q.Topic. It never panics
// and never returns an error value; failures are reported in the Result.
func (d *Discoverer) Discover(ctx context.Context, q types.SearchQuery) Result {
	res := Result{Channel: d.profile.Name}
	if q.MaxPages == 0 {
		q.MaxPages = d.MaxPages()
	}
	if err := q.Validate(); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	searchURL := BuildSearchURL(d.profile.SearchURL, d.profile.QuerySpace, q.Topic)
	start := time.Now()
	started := false

	err := browser.Use(ctx, d.browsers, func(page browser.Page) error {
		if err := page.Navigate(ctx, searchURL); err != nil {
			return &types.DiscoveryError{Channel: d.profile.Name, Stage: "navigate", Err: err}
		}
		started = true

		if err := d.sleep(ctx, d.profile.SettleDelay); err != nil {
			return err
		}
		d.dismissConsent(ctx, page)

		return d.paginate(ctx, page, q, &res)
	})

	switch {
	case err != nil && res.Status == "":
		res.Err = err
		res.Status = StatusFailed
		if started {
			res.Status = StatusTruncated
		}
	case err != nil:
		// The run itself finished; only teardown failed.
		d.logger.Warn("browser teardown failed", "error", err)
	}

	d.logger.Info("discovery finished",
		"topic", q.Topic,
		"status", res.Status,
		"links", len(res.Links),
		"pages", res.Pages,
		"duration", time.Since(start),
	)
	if res.Err != nil {
		d.logger.Warn("discovery stopped early", "status", res.Status, "error", res.Err)
	}
	return res
}

// dismissConsent clicks the consent button if one shows up. Failure is ignored.
func (d *Discoverer) dismissConsent(ctx context.Context, page browser.Page) {
	if d.profile.ConsentSelector == "" {
		return
	}
	btn, err := page.WaitClickable(ctx, d.profile.ConsentSelector, d.profile.ConsentTimeout)
	if err != nil {
		d.logger.Debug("no consent overlay", "error", err)
		return
	}
	if err := btn.Click(ctx); err != nil {
		d.logger.Debug("consent click failed", "error", err)
		return
	}
	d.logger.Debug("consent overlay dismissed")
}

// paginate walks the listing pages. It sets res.Status on every normal exit
// and returns an error only for unexpected failures.
func (d *Discoverer) paginate(ctx context.Context, page browser.Page, q types.SearchQuery, res *Result) error {
	links := newLinkSet(q.MaxArticles)

	for idx := 0; idx < q.MaxPages; idx++ {
		cards, err := page.WaitAll(ctx, d.profile.CardSelector, d.profile.CardTimeout)
		if err != nil && !isTimeout(ctx, err) {
			return &types.DiscoveryError{Channel: d.profile.Name, Stage: "cards", Err: err}
		}
		// A listing that re-renders between the wait and the query can come
		// back empty without an error.
		if err != nil || len(cards) == 0 {
			if idx == 0 {
				res.Status = StatusNoResults
			} else {
				res.Status = StatusExhausted
			}
			return nil
		}

		res.Pages = idx + 1
		if err := d.collect(ctx, cards, links); err != nil {
			res.Links = links.Links()
			return err
		}
		res.Links = links.Links()
		d.logger.Debug("listing scanned", "page", idx+1, "cards", len(cards), "links", links.Len())

		if links.Full() {
			res.Status = StatusCapped
			return nil
		}
		if idx == q.MaxPages-1 {
			break
		}

		advanced, err := d.advance(ctx, page, idx, cards[0])
		if err != nil {
			return &types.DiscoveryError{Channel: d.profile.Name, Stage: "paginate", Err: err}
		}
		if !advanced {
			break
		}
	}

	res.Status = StatusExhausted
	return nil
}

// collect adds card links in DOM order until links is full. Cards without a
// usable link are skipped.
func (d *Discoverer) collect(ctx context.Context, cards []browser.Element, links *linkSet) error {
	for _, card := range cards {
		if links.Full() {
			return nil
		}
		href, err := d.cardHref(ctx, card)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Debug("card skipped", "error", err)
			continue
		}
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		if d.profile.LinkPrefix != "" && !strings.HasPrefix(href, d.profile.LinkPrefix) {
			continue
		}
		links.Add(href)
	}
	return nil
}

func (d *Discoverer) cardHref(ctx context.Context, card browser.Element) (string, error) {
	if d.profile.LinkSelector == "" {
		return card.Href(ctx)
	}
	link, err := card.Find(ctx, d.profile.LinkSelector)
	if err != nil {
		return "", err
	}
	return link.Href(ctx)
}

// advance moves the listing forward one step. It returns false when there is
// nothing further to load.
func (d *Discoverer) advance(ctx context.Context, page browser.Page, idx int, first browser.Element) (bool, error) {
	control, err := d.nextControl(ctx, page, idx)
	if err != nil || control == nil {
		return false, err
	}

	if d.profile.ScrollIntoView {
		if err := control.ScrollIntoView(ctx); err != nil {
			return false, err
		}
		if err := d.sleep(ctx, d.profile.ScrollPause); err != nil {
			return false, err
		}
	}

	if d.profile.Click == config.ClickNative {
		err = control.Click(ctx)
	} else {
		err = control.ClickScript(ctx)
	}
	if err != nil {
		return false, err
	}

	if d.profile.WaitStale {
		if err := first.WaitStale(ctx, d.profile.StaleTimeout); err != nil {
			if isTimeout(ctx, err) {
				d.logger.Debug("listing did not refresh after click")
				return false, nil
			}
			return false, err
		}
	}

	if err := d.sleep(ctx, d.profile.PageDelay); err != nil {
		return false, err
	}
	return true, nil
}

// nextControl finds the element that loads the next listing, or nil when none exists.
func (d *Discoverer) nextControl(ctx context.Context, page browser.Page, idx int) (browser.Element, error) {
	if d.profile.Pagination == config.PaginationIndexed {
		buttons, err := page.All(ctx, d.profile.NextSelector)
		if err != nil {
			return nil, err
		}
		if idx+1 >= len(buttons) {
			return nil, nil
		}
		return buttons[idx+1], nil
	}

	control, err := page.WaitClickable(ctx, d.profile.NextSelector, d.profile.NextTimeout)
	if err != nil {
		if isTimeout(ctx, err) || errors.Is(err, browser.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return control, nil
}

// isTimeout reports whether err is a bounded wait expiring rather than the
// caller's context ending.
func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() == nil && errors.Is(err, browser.ErrTimeout)
}
