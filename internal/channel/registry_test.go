package channel

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/browser/browsertest"
	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/discovery"
	"github.com/IshaanNene/NewsPulse/internal/extract"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type stubDiscoverer struct {
	links []string
	got   types.SearchQuery
}

func (s *stubDiscoverer) Discover(_ context.Context, q types.SearchQuery) discovery.Result {
	s.got = q
	links := s.links
	if len(links) > q.MaxArticles {
		links = links[:q.MaxArticles]
	}
	return discovery.Result{Channel: q.Channel, Links: links, Status: discovery.StatusCapped}
}

type stubExtractor map[string]string

func (s stubExtractor) Extract(_ context.Context, url string) extract.Result {
	text, ok := s[url]
	if !ok {
		return extract.Result{URL: url, Status: extract.StatusBadStatus, Err: errors.New("404")}
	}
	return extract.Result{URL: url, Article: extract.Article{Text: text}, Status: extract.StatusOK}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(2, 3, testLogger)
	d := &stubDiscoverer{links: []string{"https://a/1", "https://a/2", "https://a/3"}}
	if err := reg.Register(&Channel{Name: "A", Discoverer: d, Extractor: stubExtractor{"https://a/1": "body"}}); err != nil {
		t.Fatal(err)
	}

	links := reg.LinksFor(context.Background(), "A", "economy")
	if !reflect.DeepEqual(links, []string{"https://a/1", "https://a/2"}) {
		t.Errorf("unexpected links %v", links)
	}
	if d.got.Channel != "A" || d.got.Topic != "economy" || d.got.MaxPages != 3 {
		t.Errorf("unexpected query %+v", d.got)
	}

	if got := reg.TextFor(context.Background(), "https://a/1", "A"); got != "body" {
		t.Errorf("expected body, got %q", got)
	}
	if got := reg.TextFor(context.Background(), "https://a/9", "A"); got != "" {
		t.Errorf("expected empty text on failure, got %q", got)
	}
}

func TestRegistryUnknownChannel(t *testing.T) {
	reg := NewRegistry(5, 10, testLogger)

	if links := reg.LinksFor(context.Background(), "Nowhere", "economy"); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
	if text := reg.TextFor(context.Background(), "https://x", "Nowhere"); text != "" {
		t.Errorf("expected empty text, got %q", text)
	}

	res := reg.Discover(context.Background(), "Nowhere", types.SearchQuery{Topic: "x", MaxArticles: 1, MaxPages: 1})
	if res.Status != discovery.StatusFailed || !errors.Is(res.Err, types.ErrUnknownChannel) {
		t.Errorf("expected failed unknown-channel result, got %s %v", res.Status, res.Err)
	}
	ext := reg.Extract(context.Background(), "Nowhere", "https://x")
	if ext.OK() || !errors.Is(ext.Err, types.ErrUnknownChannel) {
		t.Errorf("expected unknown-channel extraction error, got %s %v", ext.Status, ext.Err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry(5, 10, testLogger)
	ch := &Channel{Name: "A", Discoverer: &stubDiscoverer{}, Extractor: stubExtractor{}}
	if err := reg.Register(ch); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(ch); !errors.Is(err, types.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if err := reg.Register(&Channel{Name: "B"}); err == nil {
		t.Error("expected error for channel without strategies")
	}
}

func TestBuildRegistersDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	f := fetcher.NewHTTPFetcher(cfg.Fetcher, testLogger)
	reg, err := Build(cfg, &browsertest.Source{}, f, testLogger)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"BBC", "CNN", "Dawn News", "Fox News", "TRT News", "Al Jazeera"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	for _, name := range want {
		ch, ok := reg.Lookup(name)
		if !ok || ch.Discoverer == nil || ch.Extractor == nil {
			t.Errorf("channel %q not fully registered", name)
		}
	}
}

func TestBuildUsesBrowserSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cnn := cfg.Channels[1]
	page := &browsertest.Page{
		CardSelector: cnn.CardSelector,
		LinkSelector: cnn.LinkSelector,
		NextSelector: cnn.NextSelector,
		Listings: [][]browsertest.Card{
			{{Href: "https://edition.cnn.com/a"}, {Href: "https://edition.cnn.com/b"}},
		},
	}
	src := &browsertest.Source{Page: page}

	reg, err := Build(cfg, src, fetcher.NewHTTPFetcher(cfg.Fetcher, testLogger), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	res := reg.Discover(context.Background(), "CNN", types.SearchQuery{Topic: "economy", MaxArticles: 5, MaxPages: 1})
	if !reflect.DeepEqual(res.Links, []string{"https://edition.cnn.com/a", "https://edition.cnn.com/b"}) {
		t.Errorf("unexpected links %v (status %s, err %v)", res.Links, res.Status, res.Err)
	}
	acquired, released := src.Counts()
	if acquired != 1 || released != 1 {
		t.Errorf("expected one session acquired and released, got %d/%d", acquired, released)
	}
}
