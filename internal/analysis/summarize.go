package analysis

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	// NoSummary is returned for empty input.
	NoSummary = "No summary available."
	// SummaryFailed is returned when no chunk could be summarized.
	SummaryFailed = "Failed to generate summary."
)

// errNoSentences is returned by the extractive backend for text without
// any sentence to pick.
var errNoSentences = errors.New("no sentences to summarize")

// Backend summarizes one chunk of preprocessed text.
type Backend interface {
	SummarizeChunk(ctx context.Context, chunk string) (string, error)
}

// ChunkedSummarizer splits long text into fixed word chunks, summarizes each
// with a Backend and joins the successes.
type ChunkedSummarizer struct {
	backend    Backend
	chunkWords int
	logger     *slog.Logger
}

// NewChunkedSummarizer creates a summarizer over backend.
func NewChunkedSummarizer(backend Backend, chunkWords int, logger *slog.Logger) *ChunkedSummarizer {
	return &ChunkedSummarizer{
		backend:    backend,
		chunkWords: chunkWords,
		logger:     logger.With("component", "summarizer"),
	}
}

// Summarize never fails. Empty text yields NoSummary and a run where every
// chunk fails yields SummaryFailed.
func (s *ChunkedSummarizer) Summarize(ctx context.Context, text string) string {
	chunks := chunkWords(Preprocess(text), s.chunkWords)
	if len(chunks) == 0 {
		return NoSummary
	}

	var parts []string
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		out, err := s.backend.SummarizeChunk(ctx, chunk)
		out = strings.TrimSpace(out)
		if err != nil || out == "" {
			s.logger.Warn("chunk summary failed", "chunk", i, "chunks", len(chunks), "error", err)
			continue
		}
		parts = append(parts, out)
	}

	if len(parts) == 0 {
		return SummaryFailed
	}
	return strings.Join(parts, " ")
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Extractive picks the highest scoring sentences of a chunk, scored by the
// frequency of their non-stopword words, and returns them in text order.
type Extractive struct {
	Sentences int
}

// SummarizeChunk implements Backend.
func (e Extractive) SummarizeChunk(ctx context.Context, chunk string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var sentences []string
	for _, m := range sentencePattern.FindAllString(chunk, -1) {
		if m = strings.TrimSpace(m); strings.IndexFunc(m, isWordRune) >= 0 {
			sentences = append(sentences, m)
		}
	}
	if len(sentences) == 0 {
		return "", errNoSentences
	}

	n := e.Sentences
	if n <= 0 {
		n = 3
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " "), nil
	}

	freq := make(map[string]int)
	for _, w := range contentWords(chunk) {
		freq[w]++
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		words := contentWords(sent)
		total := 0
		for _, w := range words {
			total += freq[w]
		}
		score := 0.0
		if len(words) > 0 {
			score = float64(total) / float64(len(words))
		}
		ranked[i] = scored{idx: i, score: score}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	picked := ranked[:n]
	sort.Slice(picked, func(a, b int) bool { return picked[a].idx < picked[b].idx })

	out := make([]string, len(picked))
	for i, p := range picked {
		out[i] = sentences[p.idx]
	}
	return strings.Join(out, " "), nil
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

var _ Backend = Extractive{}
