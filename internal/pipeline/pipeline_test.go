package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/discovery"
	"github.com/IshaanNene/NewsPulse/internal/extract"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeDispatcher serves canned links and article text.
type fakeDispatcher struct {
	mu    sync.Mutex
	links map[string][]string
	texts map[string]string
	delay map[string]time.Duration
	calls []string
}

func (f *fakeDispatcher) Discover(ctx context.Context, channel string, q types.SearchQuery) discovery.Result {
	f.mu.Lock()
	f.calls = append(f.calls, "discover:"+channel)
	d := f.delay[channel]
	f.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}

	links, ok := f.links[channel]
	if !ok {
		return discovery.Result{Channel: channel, Status: discovery.StatusFailed, Err: types.ErrUnknownChannel}
	}
	if len(links) > q.MaxArticles {
		links = links[:q.MaxArticles]
	}
	return discovery.Result{Channel: channel, Links: links, Status: discovery.StatusCapped}
}

func (f *fakeDispatcher) Extract(ctx context.Context, channel, url string) extract.Result {
	f.mu.Lock()
	f.calls = append(f.calls, "extract:"+url)
	f.mu.Unlock()

	text, ok := f.texts[url]
	if !ok {
		return extract.Result{URL: url, Status: extract.StatusBadStatus, Err: errors.New("HTTP 404")}
	}
	return extract.Result{URL: url, Article: extract.Article{Text: text, Author: channel}, Status: extract.StatusOK}
}

type panickyClassifier struct{}

func (p panickyClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if strings.Contains(text, "boom") {
		panic("classifier exploded")
	}
	return types.Sentiment{Label: types.LabelNeutral, Score: 50}, nil
}

type fixedSummarizer string

func (s fixedSummarizer) Summarize(ctx context.Context, text string) string { return string(s) }

func newDispatcher(channels ...string) *fakeDispatcher {
	f := &fakeDispatcher{links: map[string][]string{}, texts: map[string]string{}}
	bodies := []string{
		"Markets rallied and investors were delighted with the excellent growth figures.",
		"The storm caused terrible damage and tragic losses across the region.",
		"The committee will meet on Tuesday to review the schedule.",
		"Another good day for exporters as demand improved.",
	}
	for _, ch := range channels {
		for i := range 4 {
			url := fmt.Sprintf("https://%s.example/%d", strings.ToLower(ch), i)
			f.links[ch] = append(f.links[ch], url)
			f.texts[url] = bodies[i]
		}
	}
	return f
}

func newRunner(d Dispatcher, opts Options) *Runner {
	if opts.TruncateWords == 0 {
		opts.TruncateWords = 900
	}
	if opts.KeywordsTopN == 0 {
		opts.KeywordsTopN = 50
	}
	if opts.ArticleLimit == 0 {
		opts.ArticleLimit = 5
	}
	summarizer := analysis.NewChunkedSummarizer(analysis.Extractive{Sentences: 2}, 900, testLogger)
	return NewRunner(d, analysis.NewVaderClassifier(0.05, -0.05), summarizer, opts, nil, testLogger)
}

func TestRunTwoChannels(t *testing.T) {
	d := newDispatcher("C1", "C2")
	r := newRunner(d, Options{})

	report, err := r.Run(context.Background(), Request{Channels: []string{"C1", "C2"}, Topic: " economy ", MaxArticles: 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Records) == 0 || len(report.Records) > 6 {
		t.Fatalf("expected 1..6 records, got %d", len(report.Records))
	}
	if report.Topic != "economy" {
		t.Errorf("expected trimmed topic, got %q", report.Topic)
	}

	valid := map[string]bool{types.LabelPositive: true, types.LabelNeutral: true, types.LabelNegative: true}
	for i, rec := range report.Records {
		if !valid[rec.Sentiment.Label] {
			t.Errorf("record %d: invalid label %q", i, rec.Sentiment.Label)
		}
		if rec.Sentiment.Score < 0 || rec.Sentiment.Score > 100 {
			t.Errorf("record %d: score %f out of range", i, rec.Sentiment.Score)
		}
		if rec.Summary != "" || rec.Keywords != nil || rec.HasWordCloud() {
			t.Errorf("record %d: expected no summary or cloud when not requested", i)
		}
		wantChannel := "C1"
		if i >= 3 {
			wantChannel = "C2"
		}
		if rec.Channel != wantChannel {
			t.Errorf("record %d: expected channel %s, got %s", i, wantChannel, rec.Channel)
		}
	}

	m := r.Metrics().Snapshot()
	if m["discovery_runs"] != 2 || m["records_analyzed"] != int64(len(report.Records)) {
		t.Errorf("unexpected metrics %v", m)
	}
}

func TestRunSequentialOrder(t *testing.T) {
	d := newDispatcher("C1", "C2")
	if _, err := newRunner(d, Options{}).Run(context.Background(), Request{Channels: []string{"C1", "C2"}, Topic: "x", MaxArticles: 2}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"discover:C1", "extract:https://c1.example/0", "extract:https://c1.example/1",
		"discover:C2", "extract:https://c2.example/0", "extract:https://c2.example/1",
	}
	if strings.Join(d.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, d.calls)
	}
}

func TestRunConcurrentKeepsChannelOrder(t *testing.T) {
	d := newDispatcher("C1", "C2", "C3")
	d.delay = map[string]time.Duration{"C1": 30 * time.Millisecond}

	report, err := newRunner(d, Options{Concurrency: 3}).Run(context.Background(),
		Request{Channels: []string{"C1", "C2", "C3"}, Topic: "x", MaxArticles: 1})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, rec := range report.Records {
		got = append(got, rec.Channel)
	}
	if strings.Join(got, ",") != "C1,C2,C3" {
		t.Errorf("expected records in channel order, got %v", got)
	}
}

func TestRunNotices(t *testing.T) {
	d := newDispatcher("C1")
	d.links["Empty"] = nil
	delete(d.texts, "https://c1.example/1")

	report, err := newRunner(d, Options{}).Run(context.Background(),
		Request{Channels: []string{"Empty", "C1", "Missing"}, Topic: "x", MaxArticles: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Records) != 2 {
		t.Errorf("expected the failed article to be skipped, got %d records", len(report.Records))
	}

	var msgs []string
	for _, n := range report.Notices {
		msgs = append(msgs, n.Channel+": "+n.Message)
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{
		"Empty: No articles found for Empty on this topic.",
		"C1: Found 3 articles. Processing top 3.",
		"C1: Failed to fetch article content.",
		"Missing: No articles found for Missing on this topic.",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing notice %q in:\n%s", want, joined)
		}
	}
}

func TestRunNoArticles(t *testing.T) {
	d := newDispatcher()
	d.links["C1"] = []string{"https://c1.example/gone"}

	report, err := newRunner(d, Options{}).Run(context.Background(), Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1})
	if !errors.Is(err, types.ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
	if report == nil || len(report.Notices) < 2 {
		t.Fatalf("expected report with notices, got %+v", report)
	}
	last := report.Notices[len(report.Notices)-1]
	if last.Level != NoticeError || !strings.HasPrefix(last.Message, "No articles could be analyzed") {
		t.Errorf("unexpected terminal notice %+v", last)
	}
}

func TestRunSummaryAndWordCloud(t *testing.T) {
	d := newDispatcher("C1")

	report, err := newRunner(d, Options{}).Run(context.Background(),
		Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1, Summarize: true})
	if err != nil {
		t.Fatal(err)
	}
	rec := report.Records[0]
	if rec.Summary == "" || rec.HasWordCloud() {
		t.Errorf("expected summary without cloud, got %q cloud=%v", rec.Summary, rec.HasWordCloud())
	}

	report, err = newRunner(d, Options{}).Run(context.Background(),
		Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1, Summarize: true, WordCloud: true})
	if err != nil {
		t.Fatal(err)
	}
	rec = report.Records[0]
	if len(rec.Keywords) == 0 || !rec.HasWordCloud() {
		t.Errorf("expected keywords and cloud, got %v cloud=%v", rec.Keywords, rec.HasWordCloud())
	}

	report, err = newRunner(d, Options{}).Run(context.Background(),
		Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1, WordCloud: true})
	if err != nil {
		t.Fatal(err)
	}
	if report.Records[0].HasWordCloud() {
		t.Error("word cloud requires summaries")
	}
}

func TestRunTruncates(t *testing.T) {
	d := newDispatcher("C1")

	report, err := newRunner(d, Options{TruncateWords: 4}).Run(context.Background(),
		Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1})
	if err != nil {
		t.Fatal(err)
	}
	rec := report.Records[0]
	if !rec.Truncated || len(strings.Fields(rec.Text)) != 4 {
		t.Errorf("expected 4-word truncated text, got %q truncated=%v", rec.Text, rec.Truncated)
	}
	found := false
	for _, n := range report.Notices {
		if strings.HasPrefix(n.Message, "Note: Article was truncated") {
			found = true
		}
	}
	if !found {
		t.Error("expected truncation notice")
	}
}

func TestRunRecoversAnalysisPanic(t *testing.T) {
	d := newDispatcher("C1")
	d.texts["https://c1.example/0"] = "boom goes the classifier"

	opts := Options{TruncateWords: 900, ArticleLimit: 5}
	r := NewRunner(d, panickyClassifier{}, fixedSummarizer("s"), opts, nil, testLogger)

	report, err := r.Run(context.Background(), Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Records) != 1 || report.Records[0].URL != "https://c1.example/1" {
		t.Errorf("expected the second article only, got %d records", len(report.Records))
	}
	found := false
	for _, n := range report.Notices {
		if strings.HasPrefix(n.Message, "Failed to analyze this article") && strings.Contains(n.Message, "sentiment") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an analysis failure notice, got %+v", report.Notices)
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"ok", Request{Channels: []string{"BBC"}, Topic: "x", MaxArticles: 5}, nil},
		{"blank topic", Request{Channels: []string{"BBC"}, Topic: "  ", MaxArticles: 1}, types.ErrBlankTopic},
		{"no channels", Request{Topic: "x", MaxArticles: 1}, types.ErrNoChannels},
		{"zero articles", Request{Channels: []string{"BBC"}, Topic: "x"}, types.ErrArticleCount},
		{"too many articles", Request{Channels: []string{"BBC"}, Topic: "x", MaxArticles: 6}, types.ErrArticleCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(5)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	d := newDispatcher("BBC")
	if _, err := newRunner(d, Options{}).Run(context.Background(), Request{Channels: []string{"BBC"}, Topic: ""}); !errors.Is(err, types.ErrBlankTopic) {
		t.Errorf("expected run to reject blank topic, got %v", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("expected no dispatch for invalid request, got %v", d.calls)
	}
}

func TestRunCancelled(t *testing.T) {
	d := newDispatcher("C1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(d, Options{}).Run(ctx, Request{Channels: []string{"C1"}, Topic: "x", MaxArticles: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type dropMiddleware struct{}

func (dropMiddleware) Name() string { return "drop" }
func (dropMiddleware) Process(context.Context, *types.ArticleRecord) (*types.ArticleRecord, error) {
	return nil, nil
}

type failMiddleware struct{}

func (failMiddleware) Name() string { return "fail" }
func (failMiddleware) Process(context.Context, *types.ArticleRecord) (*types.ArticleRecord, error) {
	return nil, errors.New("bad record")
}

func TestPipelineProcess(t *testing.T) {
	ctx := context.Background()

	p := New(testLogger)
	p.Use(&RequiredTextMiddleware{})
	p.Use(&TruncateMiddleware{Words: 2})
	if p.Len() != 2 || strings.Join(p.Names(), ",") != "required_text,truncate" {
		t.Errorf("unexpected chain %v", p.Names())
	}

	out, err := p.Process(ctx, types.NewArticleRecord("C", "u", "one two three"))
	if err != nil || out == nil || out.Text != "one two" || !out.Truncated {
		t.Errorf("unexpected result %+v, %v", out, err)
	}

	out, err = p.Process(ctx, types.NewArticleRecord("C", "u", "   "))
	if out != nil || err != nil {
		t.Errorf("expected empty text to be dropped, got %+v, %v", out, err)
	}

	p = New(testLogger)
	p.Use(dropMiddleware{})
	p.Use(failMiddleware{})
	if out, err := p.Process(ctx, types.NewArticleRecord("C", "u", "x")); out != nil || err != nil {
		t.Errorf("expected drop to stop the chain, got %+v, %v", out, err)
	}

	p = New(testLogger)
	p.Use(failMiddleware{})
	_, err = p.Process(ctx, types.NewArticleRecord("C", "u", "x"))
	var pe *types.PipelineError
	if !errors.As(err, &pe) || pe.Stage != "fail" || pe.URL != "u" {
		t.Errorf("expected PipelineError at stage fail, got %v", err)
	}
}
