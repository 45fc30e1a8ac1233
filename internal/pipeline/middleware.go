package pipeline

import (
	"context"
	"strings"

	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// --- Built-in Middleware ---

// RequiredTextMiddleware drops records without article text.
type RequiredTextMiddleware struct{}

func (m *RequiredTextMiddleware) Name() string { return "required_text" }

func (m *RequiredTextMiddleware) Process(_ context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	if strings.TrimSpace(rec.Text) == "" {
		return nil, nil
	}
	return rec, nil
}

// TruncateMiddleware keeps the first Words words of the text and flags the
// record when anything was cut.
type TruncateMiddleware struct {
	Words int
}

func (m *TruncateMiddleware) Name() string { return "truncate" }

func (m *TruncateMiddleware) Process(_ context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	rec.Text, rec.Truncated = analysis.Truncate(rec.Text, m.Words)
	return rec, nil
}

// SentimentMiddleware labels the record.
type SentimentMiddleware struct {
	Classifier analysis.Classifier
}

func (m *SentimentMiddleware) Name() string { return "sentiment" }

func (m *SentimentMiddleware) Process(ctx context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	s, err := m.Classifier.Classify(ctx, rec.Text)
	if err != nil {
		return nil, err
	}
	rec.Sentiment = s
	return rec, nil
}

// Summarizer produces a summary for text. It reports failure through its
// sentinel strings rather than an error.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// SummaryMiddleware attaches a summary.
type SummaryMiddleware struct {
	Summarizer Summarizer
}

func (m *SummaryMiddleware) Name() string { return "summary" }

func (m *SummaryMiddleware) Process(ctx context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	rec.Summary = m.Summarizer.Summarize(ctx, rec.Text)
	return rec, nil
}

// KeywordsMiddleware attaches the top keywords of the text.
type KeywordsMiddleware struct {
	TopN int
}

func (m *KeywordsMiddleware) Name() string { return "keywords" }

func (m *KeywordsMiddleware) Process(_ context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	rec.Keywords = analysis.Keywords(rec.Text, m.TopN)
	return rec, nil
}

// WordCloudMiddleware renders the keywords as an image. Records without
// keywords get no image.
type WordCloudMiddleware struct{}

func (m *WordCloudMiddleware) Name() string { return "word_cloud" }

func (m *WordCloudMiddleware) Process(_ context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error) {
	rec.WordCloud = analysis.RenderWordCloud(rec.Keywords)
	return rec, nil
}
