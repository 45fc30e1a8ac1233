// Package extract turns an article URL into its body text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Status classifies an extraction outcome.
type Status string

const (
	StatusOK            Status = "ok"
	StatusFetchFailed   Status = "fetch_failed"
	StatusBadStatus     Status = "bad_status"
	StatusParseFailed   Status = "parse_failed"
	StatusNoContentRoot Status = "no_content_root"
	StatusEmpty         Status = "empty"
)

// Article is the text and metadata read from one page.
type Article struct {
	Text   string
	Title  string
	Author string
}

// Result is the outcome of one extraction. Text is non-empty exactly when
// Status is StatusOK.
type Result struct {
	URL string
	Article
	Status Status
	Err    error
	// Retryable is set when the fetch failed in a way a later attempt may
	// not, such as a timeout, a reset connection or a 429/5xx status.
	Retryable bool
}

// OK reports whether text was extracted.
func (r Result) OK() bool { return r.Status == StatusOK }

// Extractor reads article bodies for one channel.
type Extractor struct {
	channel     string
	selector    string
	separator   string
	fetcher     fetcher.Fetcher
	readability bool
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithReadabilityFallback extracts the main text with go-readability when the
// content root is missing.
func WithReadabilityFallback(enabled bool) Option {
	return func(e *Extractor) { e.readability = enabled }
}

// New creates an Extractor using the channel's content selector and separator.
func New(ch config.ChannelConfig, f fetcher.Fetcher, logger *slog.Logger, opts ...Option) *Extractor {
	sep := ch.Separator
	if sep == "" {
		sep = " "
	}
	e := &Extractor{
		channel:   ch.Name,
		selector:  strings.TrimSpace(ch.ContentSelector),
		separator: sep,
		fetcher:   f,
		logger:    logger.With("component", "extract", "channel", ch.Name),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches url and joins the text of every paragraph under the
// content root. It never returns an error value or panics; failures yield
// empty text with a Status and Err.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (res Result) {
	res = Result{URL: rawURL}

	defer func() {
		if r := recover(); r != nil {
			res = Result{URL: rawURL, Status: StatusParseFailed, Err: fmt.Errorf("extract panic: %v", r)}
		}
		if res.Err != nil {
			e.logger.Warn("extraction failed", "url", rawURL, "status", res.Status, "retryable", res.Retryable, "error", res.Err)
		}
	}()

	resp, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		res.Err = err
		res.Status = StatusFetchFailed
		var fe *types.FetchError
		if errors.As(err, &fe) {
			res.Retryable = fe.IsRetryable()
			if fe.StatusCode > 0 {
				res.Status = StatusBadStatus
			}
		}
		return res
	}

	article, status, err := e.parse(resp)
	res.Article = article
	res.Status = status
	res.Err = err
	if status != StatusOK {
		res.Text = ""
	}

	e.logger.Debug("article extracted", "url", rawURL, "status", status, "chars", len(res.Text))
	return res
}

// parse pulls text and metadata out of a fetched page.
func (e *Extractor) parse(resp *fetcher.Response) (Article, Status, error) {
	root, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return Article{}, StatusParseFailed, &types.ParseError{URL: resp.URL, Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)

	md := readMetadata(doc)
	article := Article{Title: md.Title, Author: md.Author}
	if article.Author == "" {
		article.Author = e.channel
	}

	paragraphs, err := e.paragraphs(root, doc)
	if err != nil {
		if errors.Is(err, types.ErrNoContentRoot) && e.readability {
			if text := e.readabilityText(resp); text != "" {
				article.Text = text
				return article, StatusOK, nil
			}
		}
		status := StatusParseFailed
		if errors.Is(err, types.ErrNoContentRoot) {
			status = StatusNoContentRoot
		}
		return article, status, &types.ParseError{URL: resp.URL, Selector: e.selector, Err: err}
	}

	article.Text = strings.Join(paragraphs, e.separator)
	if article.Text == "" {
		return article, StatusEmpty, &types.ParseError{URL: resp.URL, Selector: e.selector, Err: types.ErrEmptyContent}
	}
	return article, StatusOK, nil
}

// paragraphs returns the trimmed, non-empty text of each <p> under the content
// root in document order.
func (e *Extractor) paragraphs(root *html.Node, doc *goquery.Document) ([]string, error) {
	if expr, ok := strings.CutPrefix(e.selector, config.XPathPrefix); ok {
		return xpathParagraphs(root, expr)
	}

	scope := doc.Selection
	if e.selector != "" {
		scope = doc.Find(e.selector).First()
		if scope.Length() == 0 {
			return nil, types.ErrNoContentRoot
		}
	}

	var out []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}

func xpathParagraphs(root *html.Node, expr string) ([]string, error) {
	scope, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	if scope == nil {
		return nil, types.ErrNoContentRoot
	}

	var out []string
	for _, p := range htmlquery.Find(scope, ".//p") {
		if text := strings.TrimSpace(htmlquery.InnerText(p)); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

func (e *Extractor) readabilityText(resp *fetcher.Response) string {
	pageURL, err := url.Parse(resp.URL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(resp.Body), pageURL)
	if err != nil {
		e.logger.Debug("readability fallback failed", "url", resp.URL, "error", err)
		return ""
	}
	return strings.Join(strings.Fields(article.TextContent), " ")
}
