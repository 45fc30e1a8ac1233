package report

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// RunFunc executes one analysis request.
type RunFunc func(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)

// StatsProvider provides run counters.
type StatsProvider interface {
	Snapshot() map[string]int64
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Addr     string
	Title    string
	Channels []string
	Defaults []string
	Limit    int
}

// Server serves the analysis form and renders reports. It runs one analysis
// at a time.
type Server struct {
	opts     ServerOptions
	run      RunFunc
	provider StatsProvider
	logger   *slog.Logger

	running sync.Mutex
	mu      sync.RWMutex
	last    *pipeline.Report
}

// NewServer creates a form server. provider may be nil.
func NewServer(opts ServerOptions, run RunFunc, provider StatsProvider, logger *slog.Logger) *Server {
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	return &Server{
		opts:     opts,
		run:      run,
		provider: provider,
		logger:   logger.With("component", "form_server"),
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/report", s.handleAPIReport)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("form server starting", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("form server stopping")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) defaultForm() *Form {
	selected := make(map[string]bool)
	for _, name := range s.opts.Defaults {
		selected[name] = true
	}
	f := &Form{MaxArticles: min(3, s.opts.Limit), Limit: s.opts.Limit, Summarize: true, WordCloud: true}
	for _, name := range s.opts.Channels {
		f.Channels = append(f.Channels, ChannelOption{Name: name, Selected: selected[name]})
	}
	return f
}

func (s *Server) render(w http.ResponseWriter, status int, p Page) {
	p.Title = s.opts.Title
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := Render(w, p); err != nil {
		s.logger.Error("render failed", "error", err)
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, Page{Form: s.defaultForm()})
}

// parseForm reads a Request from the posted form and mirrors it back into
// the form state.
func (s *Server) parseForm(r *http.Request) (pipeline.Request, *Form, error) {
	if err := r.ParseForm(); err != nil {
		return pipeline.Request{}, s.defaultForm(), err
	}

	known := make(map[string]bool)
	for _, name := range s.opts.Channels {
		known[name] = true
	}
	picked := make(map[string]bool)
	var channels []string
	for _, name := range r.PostForm["channel"] {
		if known[name] && !picked[name] {
			picked[name] = true
			channels = append(channels, name)
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("articles")))
	if err != nil {
		n = 0
	}
	summarize := r.PostFormValue("summarize") != ""
	req := pipeline.Request{
		Channels:    channels,
		Topic:       r.PostFormValue("topic"),
		MaxArticles: n,
		Summarize:   summarize,
		WordCloud:   summarize && r.PostFormValue("wordcloud") != "",
	}

	form := &Form{Topic: req.Topic, MaxArticles: n, Limit: s.opts.Limit, Summarize: req.Summarize, WordCloud: req.WordCloud}
	for _, name := range s.opts.Channels {
		form.Channels = append(form.Channels, ChannelOption{Name: name, Selected: picked[name]})
	}
	return req, form, req.Validate(s.opts.Limit)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, form, err := s.parseForm(r)
	if err != nil {
		s.render(w, http.StatusBadRequest, Page{Form: form, Error: formError(err)})
		return
	}

	if !s.running.TryLock() {
		s.render(w, http.StatusConflict, Page{Form: form, Error: "An analysis is already running. Please wait for it to finish."})
		return
	}
	defer s.running.Unlock()

	report, err := s.run(r.Context(), req)
	if report != nil {
		s.mu.Lock()
		s.last = report
		s.mu.Unlock()
	}

	switch {
	case err == nil, errors.Is(err, types.ErrNoArticles):
		s.render(w, http.StatusOK, Page{Form: form, Report: report})
	default:
		s.logger.Warn("analysis failed", "topic", req.Topic, "error", err)
		s.render(w, http.StatusInternalServerError, Page{Form: form, Report: report, Error: "Analysis failed: " + err.Error()})
	}
}

// formError turns a validation error into the message shown above the form.
func formError(err error) string {
	switch {
	case errors.Is(err, types.ErrBlankTopic):
		return "Please enter a topic."
	case errors.Is(err, types.ErrNoChannels):
		return "Please select at least one news channel."
	case errors.Is(err, types.ErrArticleCount):
		return "Please choose a valid number of articles per channel."
	default:
		return err.Error()
	}
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if last == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no report yet"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"topic":       last.Topic,
		"records":     last.Records,
		"notices":     last.Notices,
		"started_at":  last.StartedAt,
		"finished_at": last.FinishedAt,
	})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if s.provider != nil {
		for k, v := range s.provider.Snapshot() {
			stats[k] = v
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
