package analysis

import (
	"context"
	"math"

	"github.com/jonreiter/govader"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Classifier assigns a sentiment label and confidence to text.
type Classifier interface {
	Classify(ctx context.Context, text string) (types.Sentiment, error)
}

// VaderClassifier labels text by VADER compound polarity.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
	positive float64
	negative float64
}

// NewVaderClassifier creates a classifier. Compound scores at or above
// positive are Positive, at or below negative are Negative.
func NewVaderClassifier(positive, negative float64) *VaderClassifier {
	return &VaderClassifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		positive: positive,
		negative: negative,
	}
}

// Classify scores the preprocessed text. Empty text is (Neutral, 0).
func (c *VaderClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return types.Sentiment{}, err
	}
	text = Preprocess(text)
	if text == "" {
		return types.Sentiment{Label: types.LabelNeutral, Score: 0}, nil
	}
	return c.label(c.analyzer.PolarityScores(text).Compound), nil
}

// label maps a compound score in [-1, 1] to a label and a 0-100 confidence.
func (c *VaderClassifier) label(compound float64) types.Sentiment {
	abs := math.Abs(compound)
	var s types.Sentiment
	switch {
	case compound >= c.positive:
		s = types.Sentiment{Label: types.LabelPositive, Score: abs * 100}
	case compound <= c.negative:
		s = types.Sentiment{Label: types.LabelNegative, Score: abs * 100}
	default:
		s = types.Sentiment{Label: types.LabelNeutral, Score: (1 - abs) * 100}
	}
	s.Score = math.Max(0, math.Min(100, s.Score))
	return s
}

var _ Classifier = (*VaderClassifier)(nil)
