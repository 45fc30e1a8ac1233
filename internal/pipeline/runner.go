package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/discovery"
	"github.com/IshaanNene/NewsPulse/internal/extract"
	"github.com/IshaanNene/NewsPulse/internal/observability"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Dispatcher routes discovery and extraction to a channel by name.
type Dispatcher interface {
	Discover(ctx context.Context, channel string, q types.SearchQuery) discovery.Result
	Extract(ctx context.Context, channel, url string) extract.Result
}

// Request is one user-initiated analysis run.
type Request struct {
	Channels    []string
	Topic       string
	MaxArticles int
	Summarize   bool
	WordCloud   bool
}

// Validate checks the request against the per-channel article limit.
func (r Request) Validate(limit int) error {
	if strings.TrimSpace(r.Topic) == "" {
		return types.ErrBlankTopic
	}
	if len(r.Channels) == 0 {
		return types.ErrNoChannels
	}
	if r.MaxArticles < 1 || (limit > 0 && r.MaxArticles > limit) {
		return fmt.Errorf("%w: got %d, want 1..%d", types.ErrArticleCount, r.MaxArticles, limit)
	}
	return nil
}

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message raised during a run.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Channel string      `json:"channel"`
	URL     string      `json:"url,omitempty"`
	Message string      `json:"message"`
}

// ChannelResult is the outcome of one channel within a run.
type ChannelResult struct {
	Channel   string
	Discovery discovery.Result
	Records   []*types.ArticleRecord
	Notices   []Notice
}

// Report is the outcome of a run. Records and Notices are in channel order.
type Report struct {
	Topic      string
	Channels   []ChannelResult
	Records    []*types.ArticleRecord
	Notices    []Notice
	StartedAt  time.Time
	FinishedAt time.Time
}

// Options configures a Runner.
type Options struct {
	TruncateWords int
	KeywordsTopN  int
	Concurrency   int
	ArticleLimit  int
}

// Runner drives channel discovery, extraction and analysis for a Request.
type Runner struct {
	dispatcher Dispatcher
	classifier analysis.Classifier
	summarizer Summarizer
	opts       Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewRunner creates a Runner. summarizer may be nil when summaries are never
// requested. metrics may be nil.
func NewRunner(d Dispatcher, classifier analysis.Classifier, summarizer Summarizer, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Runner {
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}
	return &Runner{
		dispatcher: d,
		classifier: classifier,
		summarizer: summarizer,
		opts:       opts,
		metrics:    metrics,
		logger:     logger.With("component", "runner"),
	}
}

// Metrics returns the runner's counters.
func (r *Runner) Metrics() *observability.Metrics { return r.metrics }

// stages builds the per-article middleware chain for req.
func (r *Runner) stages(req Request) *Pipeline {
	p := New(r.logger)
	p.Use(&RequiredTextMiddleware{})
	p.Use(&TruncateMiddleware{Words: r.opts.TruncateWords})
	p.Use(&SentimentMiddleware{Classifier: r.classifier})
	if req.Summarize && r.summarizer != nil {
		p.Use(&SummaryMiddleware{Summarizer: r.summarizer})
		if req.WordCloud {
			p.Use(&KeywordsMiddleware{TopN: r.opts.KeywordsTopN})
			p.Use(&WordCloudMiddleware{})
		}
	}
	return p
}

// Run processes every requested channel. Channels run one after another
// unless Concurrency is above one; articles within a channel are always
// processed in link order. When no article survives, Run returns the report
// with its notices and types.ErrNoArticles.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(r.opts.ArticleLimit); err != nil {
		return nil, err
	}
	req.Topic = strings.TrimSpace(req.Topic)

	report := &Report{
		Topic:     req.Topic,
		Channels:  make([]ChannelResult, len(req.Channels)),
		StartedAt: time.Now(),
	}
	chain := r.stages(req)

	g := new(errgroup.Group)
	g.SetLimit(max(r.opts.Concurrency, 1))
	for i, name := range req.Channels {
		g.Go(func() error {
			report.Channels[i] = r.runChannel(ctx, chain, name, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, cr := range report.Channels {
		report.Records = append(report.Records, cr.Records...)
		report.Notices = append(report.Notices, cr.Notices...)
	}
	report.FinishedAt = time.Now()
	r.metrics.Notices.Add(int64(len(report.Notices)))

	r.logger.Info("run finished",
		"topic", req.Topic,
		"channels", len(req.Channels),
		"records", len(report.Records),
		"notices", len(report.Notices),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(report.Records) == 0 {
		report.Notices = append(report.Notices, Notice{
			Level:   NoticeError,
			Message: "No articles could be analyzed. Please try a different topic or channels.",
		})
		return report, types.ErrNoArticles
	}
	return report, nil
}

func (r *Runner) runChannel(ctx context.Context, chain *Pipeline, name string, req Request) ChannelResult {
	cr := ChannelResult{Channel: name}
	logger := r.logger.With("channel", name)
	notify := func(level NoticeLevel, url, format string, args ...any) {
		cr.Notices = append(cr.Notices, Notice{Level: level, Channel: name, URL: url, Message: fmt.Sprintf(format, args...)})
	}

	if ctx.Err() != nil {
		return cr
	}

	cr.Discovery = r.dispatcher.Discover(ctx, name, types.SearchQuery{
		Topic:       req.Topic,
		MaxArticles: req.MaxArticles,
	})
	r.metrics.DiscoveryRuns.Add(1)
	if !cr.Discovery.OK() {
		r.metrics.DiscoveryFailures.Add(1)
	}
	r.metrics.LinksDiscovered.Add(int64(len(cr.Discovery.Links)))

	links := cr.Discovery.Links
	if len(links) == 0 {
		if cr.Discovery.Err != nil {
			logger.Warn("discovery failed", "status", cr.Discovery.Status, "error", cr.Discovery.Err)
		}
		notify(NoticeWarning, "", "No articles found for %s on this topic.", name)
		return cr
	}
	if len(links) > req.MaxArticles {
		links = links[:req.MaxArticles]
	}
	notify(NoticeInfo, "", "Found %d articles. Processing top %d.", len(cr.Discovery.Links), len(links))

	for _, url := range links {
		if ctx.Err() != nil {
			break
		}

		ex := r.dispatcher.Extract(ctx, name, url)
		if !ex.OK() {
			if ex.Status == extract.StatusEmpty || ex.Status == extract.StatusNoContentRoot {
				r.metrics.ArticlesEmpty.Add(1)
			} else {
				r.metrics.ArticlesFailed.Add(1)
			}
			notify(NoticeError, url, "Failed to fetch article content.")
			continue
		}
		r.metrics.ArticlesFetched.Add(1)
		r.metrics.BytesExtracted.Add(int64(len(ex.Text)))

		rec := types.NewArticleRecord(name, url, ex.Text)
		rec.Title = ex.Title
		rec.Author = ex.Author

		out, err := chain.Process(ctx, rec)
		if err != nil {
			logger.Warn("analysis failed", "url", url, "error", err)
			notify(NoticeError, url, "Failed to analyze this article: %v", err)
			continue
		}
		if out == nil {
			notify(NoticeError, url, "Failed to fetch article content.")
			continue
		}
		if out.Truncated {
			notify(NoticeInfo, url, "Note: Article was truncated to fit model limits.")
		}
		r.metrics.RecordsAnalyzed.Add(1)
		cr.Records = append(cr.Records, out)
	}
	return cr
}
