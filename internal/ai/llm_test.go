package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestOpenAISummary(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		if len(body.Messages) != 1 || !strings.Contains(body.Messages[0].Content, "markets fell") {
			http.Error(w, "bad prompt", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  Markets fell sharply.  "}}]}`))
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().AI
	cfg.Endpoint = srv.URL
	cfg.APIKey = "sk-test"
	s := NewSummarizer(NewLLMClient(cfg, testLogger))

	out, err := s.SummarizeChunk(context.Background(), "markets fell on tuesday")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if out != "Markets fell sharply." {
		t.Errorf("unexpected summary %q", out)
	}
	if gotAuth != "Bearer sk-test" || gotModel != cfg.Model {
		t.Errorf("unexpected request auth=%q model=%q", gotAuth, gotModel)
	}
}

func TestOllamaSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"response":"A short summary."}`))
	}))
	defer srv.Close()

	cfg := config.AIConfig{Provider: "ollama", Endpoint: srv.URL, Model: "llama3"}
	out, err := NewSummarizer(NewLLMClient(cfg, testLogger)).SummarizeChunk(context.Background(), "text")
	if err != nil || out != "A short summary." {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
}

func TestGenerateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		cfg  config.AIConfig
	}{
		{"bad status", config.AIConfig{Provider: "openai", Endpoint: srv.URL, APIKey: "k"}},
		{"unknown provider", config.AIConfig{Provider: "carrier-pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLMClient(tt.cfg, testLogger).Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEmptySummaryIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer srv.Close()

	cfg := config.AIConfig{Provider: "openai", Endpoint: srv.URL}
	if _, err := NewSummarizer(NewLLMClient(cfg, testLogger)).SummarizeChunk(context.Background(), "x"); err == nil {
		t.Fatal("expected error for blank summary")
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	cfg := config.AIConfig{Provider: "ollama", Endpoint: srv.URL, RequestsPerMinute: 1}
	c := NewLLMClient(cfg, testLogger)
	if _, err := c.Generate(context.Background(), "first"); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, "second"); err == nil {
		t.Fatal("expected the throttled call to fail on a cancelled context")
	}
}
