package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks counters for analysis runs.
type Metrics struct {
	// Discovery metrics
	DiscoveryRuns     atomic.Int64
	DiscoveryFailures atomic.Int64
	LinksDiscovered   atomic.Int64

	// Extraction metrics
	ArticlesFetched atomic.Int64
	ArticlesEmpty   atomic.Int64
	ArticlesFailed  atomic.Int64
	BytesExtracted  atomic.Int64

	// Analysis metrics
	RecordsAnalyzed atomic.Int64
	RecordsStored   atomic.Int64
	Notices         atomic.Int64

	// Browser metrics
	ActiveSessions atomic.Int32

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		kind  string
		value int64
	}{
		{"newspulse_discovery_runs_total", "Total link discovery runs", "counter", m.DiscoveryRuns.Load()},
		{"newspulse_discovery_failures_total", "Discovery runs that ended truncated or failed", "counter", m.DiscoveryFailures.Load()},
		{"newspulse_links_discovered_total", "Total article links discovered", "counter", m.LinksDiscovered.Load()},
		{"newspulse_articles_fetched_total", "Articles with extracted text", "counter", m.ArticlesFetched.Load()},
		{"newspulse_articles_empty_total", "Articles whose page had no text", "counter", m.ArticlesEmpty.Load()},
		{"newspulse_articles_failed_total", "Articles that could not be fetched", "counter", m.ArticlesFailed.Load()},
		{"newspulse_bytes_extracted_total", "Total bytes of extracted text", "counter", m.BytesExtracted.Load()},
		{"newspulse_records_analyzed_total", "Articles that completed analysis", "counter", m.RecordsAnalyzed.Load()},
		{"newspulse_records_stored_total", "Records written by exports", "counter", m.RecordsStored.Load()},
		{"newspulse_notices_total", "User-facing notices raised", "counter", m.Notices.Load()},
		{"newspulse_active_sessions", "Browser sessions currently open", "gauge", int64(m.ActiveSessions.Load())},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", metric.name, metric.kind)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Handler returns a mux serving metrics at path plus /health.
func (m *Metrics) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	return mux
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int, path string) error {
	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, m.Handler(path)); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"discovery_runs":     m.DiscoveryRuns.Load(),
		"discovery_failures": m.DiscoveryFailures.Load(),
		"links_discovered":   m.LinksDiscovered.Load(),
		"articles_fetched":   m.ArticlesFetched.Load(),
		"articles_empty":     m.ArticlesEmpty.Load(),
		"articles_failed":    m.ArticlesFailed.Load(),
		"bytes_extracted":    m.BytesExtracted.Load(),
		"records_analyzed":   m.RecordsAnalyzed.Load(),
		"records_stored":     m.RecordsStored.Load(),
		"notices":            m.Notices.Load(),
		"active_sessions":    int64(m.ActiveSessions.Load()),
	}
}

// LogSummary writes the current counters as one log line.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	m.logger.Info("run summary",
		"discovery_runs", s["discovery_runs"],
		"links", s["links_discovered"],
		"fetched", s["articles_fetched"],
		"empty", s["articles_empty"],
		"failed", s["articles_failed"],
		"analyzed", s["records_analyzed"],
		"notices", s["notices"],
	)
}
