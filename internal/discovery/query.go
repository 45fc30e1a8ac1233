package discovery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/config"
)

// BuildSearchURL substitutes the trimmed topic into tmpl's {query} placeholder.
// Spaces become "+" or "%20" depending on space.
func BuildSearchURL(tmpl, space, topic string) string {
	q := url.QueryEscape(strings.TrimSpace(topic))
	if space == config.QuerySpacePercent {
		q = strings.ReplaceAll(q, "+", "%20")
	}
	return strings.ReplaceAll(tmpl, "{query}", q)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
