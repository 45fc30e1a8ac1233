package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(config.DefaultConfig().Fetcher, testLogger)
}

func TestFetchPlain(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	defer f.Close()

	resp, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "<p>hello</p>") {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if gotUA != config.DefaultUserAgent {
		t.Errorf("expected desktop user agent, got %q", gotUA)
	}
}

func TestFetchDecompresses(t *testing.T) {
	const page = "<html><body><p>compressed</p></body></html>"

	tests := []struct {
		encoding string
		encode   func([]byte) []byte
	}{
		{"gzip", func(b []byte) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			zw.Write(b)
			zw.Close()
			return buf.Bytes()
		}},
		{"br", func(b []byte) []byte {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			bw.Write(b)
			bw.Close()
			return buf.Bytes()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Content-Encoding", tt.encoding)
				w.Write(tt.encode([]byte(page)))
			}))
			defer srv.Close()

			resp, err := newTestFetcher().Fetch(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if string(resp.Body) != page {
				t.Errorf("expected decoded body, got %q", resp.Body)
			}
		})
	}
}

func TestFetchConvertsCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		// "café" with é as 0xE9
		w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	resp, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(resp.Body) != "<p>café</p>" {
		t.Errorf("expected UTF-8 body, got %q", resp.Body)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", fe.StatusCode)
	}
	if fe.IsRetryable() {
		t.Error("404 should not be retryable")
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().Fetcher
	cfg.Timeout = 50 * time.Millisecond
	f := NewHTTPFetcher(cfg, testLogger)

	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "://bad")
	var fe *types.FetchError
	if !errors.As(err, &fe) || fe.Retryable {
		t.Fatalf("expected non-retryable FetchError, got %v", err)
	}
}

func TestFetchCapsDecompressedBody(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("a", 1<<20) + "</p></body></html>"
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(page))
	zw.Close()

	cfg := config.DefaultConfig().Fetcher
	cfg.MaxBodySize = 4096
	if buf.Len() >= int(cfg.MaxBodySize) {
		t.Fatalf("compressed payload should fit the cap, got %d bytes", buf.Len())
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := NewHTTPFetcher(cfg, testLogger).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if int64(len(resp.Body)) != cfg.MaxBodySize {
		t.Errorf("expected body capped at %d bytes, got %d", cfg.MaxBodySize, len(resp.Body))
	}
}
