package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a selector matches nothing.
	ErrNotFound = errors.New("element not found")

	// ErrTimeout is returned when a bounded wait expires.
	ErrTimeout = errors.New("wait timed out")
)

// Page is the subset of a live browser tab that link discovery drives.
type Page interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitAll waits up to timeout for at least one match of selector and
	// returns every match in document order.
	WaitAll(ctx context.Context, selector string, timeout time.Duration) ([]Element, error)

	// All returns the current matches of selector without waiting.
	All(ctx context.Context, selector string) ([]Element, error)

	// WaitClickable waits up to timeout for a match that is visible and enabled.
	WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error)
}

// Element is a handle to a DOM node on a Page.
type Element interface {
	// Find returns the first descendant matching selector, or ErrNotFound.
	Find(ctx context.Context, selector string) (Element, error)

	// Href returns the resolved href of an anchor.
	Href(ctx context.Context) (string, error)

	ScrollIntoView(ctx context.Context) error

	// Click dispatches a native mouse click.
	Click(ctx context.Context) error

	// ClickScript invokes the element's click() from page script.
	ClickScript(ctx context.Context) error

	// WaitStale waits up to timeout for the element to be detached from the DOM.
	WaitStale(ctx context.Context, timeout time.Duration) error
}
