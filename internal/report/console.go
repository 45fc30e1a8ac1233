package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

const maxURLWidth = 72

// WriteTable writes one aligned row per record: channel, label, score, URL.
func WriteTable(w io.Writer, records []*types.ArticleRecord) error {
	header := []string{"CHANNEL", "SENTIMENT", "SCORE", "URL"}
	rows := [][]string{header}
	for _, r := range records {
		rows = append(rows, []string{
			r.Channel,
			r.Sentiment.Label,
			fmt.Sprintf("%.1f", r.Sentiment.Score),
			runewidth.Truncate(r.URL, maxURLWidth, "..."),
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteNotices writes each notice on its own line, prefixed by level and
// channel.
func WriteNotices(w io.Writer, notices []pipeline.Notice) error {
	for _, n := range notices {
		prefix := strings.ToUpper(string(n.Level))
		if n.Channel != "" {
			prefix += " [" + n.Channel + "]"
		}
		line := prefix + " " + n.Message
		if n.URL != "" {
			line += " (" + n.URL + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the mean score of each channel and the overall label
// distribution.
func WriteSummary(w io.Writer, records []*types.ArticleRecord) error {
	for _, s := range MeanScoreByChannel(records) {
		if _, err := fmt.Fprintf(w, "%s  mean %.1f over %d article(s)\n",
			runewidth.FillRight(s.Channel, 12), s.Mean, s.Count); err != nil {
			return err
		}
	}
	var parts []string
	for _, lc := range LabelDistribution(records) {
		parts = append(parts, fmt.Sprintf("%s %d", lc.Label, lc.Count))
	}
	if len(parts) > 0 {
		_, err := fmt.Fprintf(w, "Overall: %s\n", strings.Join(parts, ", "))
		return err
	}
	return nil
}
