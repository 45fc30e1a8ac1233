// Package browsertest provides scriptable in-memory browser pages for tests.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/browser"
)

// Card is one search result card on a listing page.
type Card struct {
	Href   string
	NoLink bool
}

// Page simulates a paginated search listing.
//
// With Append false, clicking the next control replaces the listing and the
// previous cards become stale. With Append true, it adds the next listing
// below the current one, like a load-more button.
type Page struct {
	Listings [][]Card
	Append   bool

	CardSelector    string
	LinkSelector    string
	NextSelector    string
	ConsentSelector string

	// Consent shows a consent button matching ConsentSelector.
	Consent bool
	// NeverStale keeps old cards attached after advancing.
	NeverStale bool
	// ClickErr is returned by every click on the next control.
	ClickErr error
	// NavigateErr is returned by Navigate.
	NavigateErr error
	// PanicOnAll panics on the n-th card query, counting from 1.
	PanicOnAll int

	mu             sync.Mutex
	current        int
	navigated      []string
	nextClicks     int
	scrolls        int
	consentClicked bool
	allCalls       int
}

// Navigated returns the URLs passed to Navigate.
func (p *Page) Navigated() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigated...)
}

// NextClicks returns how many times a pagination control was clicked.
func (p *Page) NextClicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextClicks
}

// Scrolls returns how many times a pagination control was scrolled into view.
func (p *Page) Scrolls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrolls
}

// ConsentClicked reports whether the consent button was clicked.
func (p *Page) ConsentClicked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.consentClicked
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	return p.NavigateErr
}

func (p *Page) WaitAll(ctx context.Context, selector string, timeout time.Duration) ([]browser.Element, error) {
	els, err := p.All(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("wait for %q: %w", selector, browser.ErrTimeout)
	}
	return els, nil
}

func (p *Page) All(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch selector {
	case p.CardSelector:
		p.allCalls++
		if p.PanicOnAll > 0 && p.allCalls == p.PanicOnAll {
			panic("listing vanished")
		}
		return p.cardsLocked(), nil
	case p.NextSelector:
		// indexed pagination: one button per listing
		out := make([]browser.Element, 0, len(p.Listings))
		for i := range p.Listings {
			out = append(out, &control{page: p, target: i})
		}
		return out, nil
	}
	return nil, nil
}

func (p *Page) WaitClickable(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case selector == p.ConsentSelector && p.Consent:
		return &control{page: p, consent: true}, nil
	case selector == p.NextSelector && p.current < len(p.Listings)-1:
		return &control{page: p, target: p.current + 1}, nil
	}
	return nil, fmt.Errorf("wait for %q: %w", selector, browser.ErrTimeout)
}

func (p *Page) cardsLocked() []browser.Element {
	if len(p.Listings) == 0 {
		return nil
	}
	var out []browser.Element
	first := p.current
	if p.Append {
		first = 0
	}
	for i := first; i <= p.current; i++ {
		for _, c := range p.Listings[i] {
			out = append(out, &card{page: p, listing: i, card: c})
		}
	}
	return out
}

type card struct {
	page    *Page
	listing int
	card    Card
}

func (c *card) Find(ctx context.Context, selector string) (browser.Element, error) {
	if c.card.NoLink || selector != c.page.LinkSelector {
		return nil, browser.ErrNotFound
	}
	return &anchor{href: c.card.Href}, nil
}

func (c *card) Href(ctx context.Context) (string, error) {
	if c.card.NoLink {
		return "", nil
	}
	return c.card.Href, nil
}

func (c *card) ScrollIntoView(ctx context.Context) error { return nil }
func (c *card) Click(ctx context.Context) error          { return nil }
func (c *card) ClickScript(ctx context.Context) error    { return nil }

func (c *card) WaitStale(ctx context.Context, timeout time.Duration) error {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	if c.page.NeverStale || c.page.Append || c.page.current == c.listing {
		return fmt.Errorf("wait stale: %w", browser.ErrTimeout)
	}
	return nil
}

type anchor struct {
	href string
}

func (a *anchor) Find(ctx context.Context, selector string) (browser.Element, error) {
	return nil, browser.ErrNotFound
}
func (a *anchor) Href(ctx context.Context) (string, error) { return a.href, nil }
func (a *anchor) ScrollIntoView(ctx context.Context) error { return nil }
func (a *anchor) Click(ctx context.Context) error          { return nil }
func (a *anchor) ClickScript(ctx context.Context) error    { return nil }
func (a *anchor) WaitStale(ctx context.Context, timeout time.Duration) error {
	return nil
}

// control is a pagination or consent button.
type control struct {
	page    *Page
	target  int
	consent bool
}

func (b *control) Find(ctx context.Context, selector string) (browser.Element, error) {
	return nil, browser.ErrNotFound
}
func (b *control) Href(ctx context.Context) (string, error) { return "", nil }

func (b *control) ScrollIntoView(ctx context.Context) error {
	b.page.mu.Lock()
	defer b.page.mu.Unlock()
	if !b.consent {
		b.page.scrolls++
	}
	return nil
}

func (b *control) Click(ctx context.Context) error       { return b.click() }
func (b *control) ClickScript(ctx context.Context) error { return b.click() }

func (b *control) WaitStale(ctx context.Context, timeout time.Duration) error { return nil }

func (b *control) click() error {
	b.page.mu.Lock()
	defer b.page.mu.Unlock()
	if b.consent {
		b.page.consentClicked = true
		b.page.Consent = false
		return nil
	}
	b.page.nextClicks++
	if b.page.ClickErr != nil {
		return b.page.ClickErr
	}
	if b.target < len(b.page.Listings) {
		b.page.current = b.target
	}
	return nil
}

// Source hands out sessions over a single fake page.
type Source struct {
	Page       browser.Page
	AcquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (s *Source) Acquire(ctx context.Context) (*browser.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AcquireErr != nil {
		return nil, s.AcquireErr
	}
	s.acquired++
	return browser.NewSession(s.Page, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.released++
		return nil
	}), nil
}

// Counts returns how many sessions were acquired and released.
func (s *Source) Counts() (acquired, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired, s.released
}
