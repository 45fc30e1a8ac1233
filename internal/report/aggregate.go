// Package report renders the results of a run as charts, an HTML page and a
// console table.
package report

import (
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// ChannelScore is the mean sentiment score of one channel's records.
type ChannelScore struct {
	Channel string
	Mean    float64
	Count   int
}

// LabelCount is how many records carry a label.
type LabelCount struct {
	Label string
	Count int
}

// ChannelLabels holds per-label record counts for one channel, in the order
// of types.Labels.
type ChannelLabels struct {
	Channel string
	Counts  []LabelCount
}

// channelOrder returns the channels of records in first-appearance order.
func channelOrder(records []*types.ArticleRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Channel] {
			seen[r.Channel] = true
			out = append(out, r.Channel)
		}
	}
	return out
}

// MeanScoreByChannel returns one entry per channel present in records.
func MeanScoreByChannel(records []*types.ArticleRecord) []ChannelScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		sums[r.Channel] += r.Sentiment.Score
		counts[r.Channel]++
	}

	order := channelOrder(records)
	out := make([]ChannelScore, 0, len(order))
	for _, ch := range order {
		out = append(out, ChannelScore{Channel: ch, Mean: sums[ch] / float64(counts[ch]), Count: counts[ch]})
	}
	return out
}

// LabelDistribution counts records per label. Labels with no records are
// omitted.
func LabelDistribution(records []*types.ArticleRecord) []LabelCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Sentiment.Label]++
	}
	var out []LabelCount
	for _, label := range types.Labels {
		if counts[label] > 0 {
			out = append(out, LabelCount{Label: label, Count: counts[label]})
		}
	}
	return out
}

// LabelCountsByChannel counts records per (channel, label). Every label is
// listed for every channel, zero counts included.
func LabelCountsByChannel(records []*types.ArticleRecord) []ChannelLabels {
	counts := make(map[string]map[string]int)
	for _, r := range records {
		if counts[r.Channel] == nil {
			counts[r.Channel] = make(map[string]int)
		}
		counts[r.Channel][r.Sentiment.Label]++
	}

	order := channelOrder(records)
	out := make([]ChannelLabels, 0, len(order))
	for _, ch := range order {
		cl := ChannelLabels{Channel: ch}
		for _, label := range types.Labels {
			cl.Counts = append(cl.Counts, LabelCount{Label: label, Count: counts[ch][label]})
		}
		out = append(out, cl)
	}
	return out
}
