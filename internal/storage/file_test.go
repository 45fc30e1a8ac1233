package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleRecords() []*types.ArticleRecord {
	a := types.NewArticleRecord("BBC", "https://www.bbc.com/news/articles/a", "Rates rose, again.")
	a.Sentiment = types.Sentiment{Label: types.LabelNegative, Score: 42.5}
	a.Keywords = []string{"rates", "rose"}
	a.WordCloud = []byte("<svg/>")

	b := types.NewArticleRecord("CNN", "https://edition.cnn.com/b", "Line one.\nLine \"two\".")
	b.Sentiment = types.Sentiment{Label: types.LabelPositive, Score: 80}
	b.Summary = "Short."
	return []*types.ArticleRecord{a, b}
}

func TestJSONExport(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("json", filepath.Join(dir, "nested"), "economy", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(s, sampleRecords()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "nested", "economy.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0]["channel"] != "BBC" || got[1]["summary"] != "Short." {
		t.Errorf("unexpected records %v", got)
	}
	if _, ok := got[0]["WordCloud"]; ok {
		t.Error("word cloud image should not be exported")
	}
}

func TestJSONLExport(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("jsonl", dir, "", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(s, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if filepath.Base(s.Path()) != "results.jsonl" {
		t.Errorf("unexpected path %s", s.Path())
	}

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec types.ArticleRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVExport(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("csv", dir, "run", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(s, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "run.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "channel" || rows[0][len(rows[0])-1] != "text" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][4] != types.LabelNegative || rows[1][5] != "42.50" || rows[1][8] != `["rates","rose"]` {
		t.Errorf("unexpected row %v", rows[1])
	}
	if rows[2][len(rows[2])-1] != "Line one.\nLine \"two\"." {
		t.Errorf("expected multi-line text to round-trip, got %q", rows[2][len(rows[2])-1])
	}
}

func TestUnsupportedType(t *testing.T) {
	_, err := NewFileStorage("parquet", t.TempDir(), "", testLogger)
	var se *types.StorageError
	if !errors.As(err, &se) || se.Backend != "parquet" {
		t.Errorf("expected StorageError, got %v", err)
	}
}
