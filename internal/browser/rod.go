package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// rodPage adapts a *rod.Page to Page.
type rodPage struct {
	page        *rod.Page
	loadTimeout time.Duration
}

// WrapPage exposes a rod page through the Page interface.
func WrapPage(page *rod.Page, loadTimeout time.Duration) Page {
	return &rodPage{page: page, loadTimeout: loadTimeout}
}

func (r *rodPage) Navigate(ctx context.Context, url string) error {
	p := r.page.Context(ctx).Timeout(r.loadTimeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, mapErr(err))
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, mapErr(err))
	}
	return nil
}

func (r *rodPage) WaitAll(ctx context.Context, selector string, timeout time.Duration) ([]Element, error) {
	p := r.page.Context(ctx).Timeout(timeout)
	if _, err := p.Element(selector); err != nil {
		p.CancelTimeout()
		return nil, fmt.Errorf("wait for %q: %w", selector, mapErr(err))
	}
	p.CancelTimeout()
	els, err := r.All(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("wait for %q: %w: listing re-rendered", selector, ErrTimeout)
	}
	return els, nil
}

func (r *rodPage) All(ctx context.Context, selector string) ([]Element, error) {
	els, err := r.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, mapErr(err))
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (r *rodPage) WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	p := r.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	el, err := p.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, mapErr(err))
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait visible %q: %w", selector, mapErr(err))
	}
	if err := el.WaitEnabled(); err != nil {
		return nil, fmt.Errorf("wait enabled %q: %w", selector, mapErr(err))
	}
	return &rodElement{el: el.Context(ctx)}, nil
}

// rodElement adapts a *rod.Element to Element.
type rodElement struct {
	el *rod.Element
}

func (r *rodElement) Find(ctx context.Context, selector string) (Element, error) {
	els, err := r.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	if len(els) == 0 {
		return nil, ErrNotFound
	}
	return &rodElement{el: els.First()}, nil
}

func (r *rodElement) Href(ctx context.Context) (string, error) {
	prop, err := r.el.Context(ctx).Property("href")
	if err != nil {
		return "", mapErr(err)
	}
	if prop.Nil() {
		return "", nil
	}
	return prop.Str(), nil
}

func (r *rodElement) ScrollIntoView(ctx context.Context) error {
	return mapErr(r.el.Context(ctx).ScrollIntoView())
}

func (r *rodElement) Click(ctx context.Context) error {
	return mapErr(r.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1))
}

func (r *rodElement) ClickScript(ctx context.Context) error {
	_, err := r.el.Context(ctx).Eval(`() => this.click()`)
	return mapErr(err)
}

func (r *rodElement) WaitStale(ctx context.Context, timeout time.Duration) error {
	el := r.el.Context(ctx).Timeout(timeout)
	defer el.CancelTimeout()

	err := el.Wait(rod.Eval(`() => !this.isConnected`))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return mapErr(err)
	}
	// The remote object is gone, which only happens once the node was discarded.
	return nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
