package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Sentiment labels produced by the classifier.
const (
	LabelPositive = "Positive"
	LabelNeutral  = "Neutral"
	LabelNegative = "Negative"
)

// Labels lists the sentiment labels in display order.
var Labels = []string{LabelPositive, LabelNeutral, LabelNegative}

// Sentiment is a categorical label with a confidence score in [0, 100].
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SearchQuery is one discovery request against a single channel.
type SearchQuery struct {
	Channel     string
	Topic       string
	MaxArticles int
	MaxPages    int
}

// Validate reports ErrInvalidQuery when the topic is blank or a bound is not positive.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Topic) == "" {
		return &QueryError{Field: "topic", Err: ErrInvalidQuery}
	}
	if q.MaxArticles < 1 {
		return &QueryError{Field: "max_articles", Err: ErrInvalidQuery}
	}
	if q.MaxPages < 1 {
		return &QueryError{Field: "max_pages", Err: ErrInvalidQuery}
	}
	return nil
}

// ArticleRecord is one successfully processed article of a run.
type ArticleRecord struct {
	Channel   string    `json:"channel"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	Truncated bool      `json:"truncated"`
	Sentiment Sentiment `json:"sentiment"`
	Summary   string    `json:"summary,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	WordCloud []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewArticleRecord creates a record for text extracted from url.
func NewArticleRecord(channel, url, text string) *ArticleRecord {
	return &ArticleRecord{
		Channel:   channel,
		URL:       url,
		Text:      text,
		FetchedAt: time.Now(),
	}
}

// HasWordCloud reports whether a word cloud was rendered.
func (r *ArticleRecord) HasWordCloud() bool { return len(r.WordCloud) > 0 }

// ToFlatMap returns a flat map suitable for CSV export.
func (r *ArticleRecord) ToFlatMap() map[string]string {
	keywords, _ := json.Marshal(r.Keywords)
	if r.Keywords == nil {
		keywords = []byte("[]")
	}
	return map[string]string{
		"channel":         r.Channel,
		"url":             r.URL,
		"title":           r.Title,
		"author":          r.Author,
		"text":            r.Text,
		"truncated":       strconv.FormatBool(r.Truncated),
		"sentiment_label": r.Sentiment.Label,
		"sentiment_score": strconv.FormatFloat(r.Sentiment.Score, 'f', 2, 64),
		"summary":         r.Summary,
		"keywords":        string(keywords),
		"fetched_at":      r.FetchedAt.Format(time.RFC3339),
	}
}
