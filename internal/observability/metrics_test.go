package observability

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(testLogger)
	m.DiscoveryRuns.Add(2)
	m.LinksDiscovered.Add(7)
	m.ActiveSessions.Store(1)

	srv := httptest.NewServer(m.Handler("/metrics"))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		"newspulse_discovery_runs_total 2",
		"newspulse_links_discovered_total 7",
		"# TYPE newspulse_active_sessions gauge",
		"newspulse_active_sessions 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in exposition:\n%s", want, text)
		}
	}

	health, err := srv.Client().Get(srv.URL + "/health")
	if err != nil || health.StatusCode != 200 {
		t.Fatalf("health check failed: %v", err)
	}
	health.Body.Close()
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics(testLogger)
	m.ArticlesFetched.Add(3)
	m.Notices.Add(1)

	s := m.Snapshot()
	if s["articles_fetched"] != 3 || s["notices"] != 1 || s["records_analyzed"] != 0 {
		t.Errorf("unexpected snapshot %v", s)
	}
}
