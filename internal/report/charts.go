package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// LabelColors are the chart colors of each sentiment label.
var LabelColors = map[string]string{
	types.LabelPositive: "#16a34a",
	types.LabelNeutral:  "#eab308",
	types.LabelNegative: "#dc2626",
}

const (
	chartWidth  = 560
	chartHeight = 320
	marginLeft  = 48
	marginRight = 16
	marginTop   = 24
	marginBot   = 56
)

type rgb struct{ r, g, b float64 }

var scoreScale = []rgb{{220, 38, 38}, {234, 179, 8}, {22, 163, 74}}

// scoreColor maps a 0-100 score onto a red, yellow, green scale.
func scoreColor(score float64) string {
	t := math.Max(0, math.Min(1, score/100)) * float64(len(scoreScale)-1)
	i := min(int(t), len(scoreScale)-2)
	f := t - float64(i)
	a, b := scoreScale[i], scoreScale[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(a.r+(b.r-a.r)*f)),
		int(math.Round(a.g+(b.g-a.g)*f)),
		int(math.Round(a.b+(b.b-a.b)*f)))
}

func openSVG(buf *bytes.Buffer, title string, w, h int) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="%s">`,
		w, h, w, h, html.EscapeString(title))
	fmt.Fprintf(buf, `<title>%s</title>`, html.EscapeString(title))
}

// axes draws the y grid from 0 to yMax with the given tick count.
func axes(buf *bytes.Buffer, yMax float64, ticks int, format string) {
	plotH := float64(chartHeight - marginTop - marginBot)
	for i := 0; i <= ticks; i++ {
		v := yMax * float64(i) / float64(ticks)
		y := float64(chartHeight-marginBot) - plotH*float64(i)/float64(ticks)
		fmt.Fprintf(buf, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#334155" stroke-width="1"/>`,
			marginLeft, y, chartWidth-marginRight, y)
		fmt.Fprintf(buf, `<text x="%d" y="%.1f" font-size="11" fill="#94a3b8" text-anchor="end">`+format+`</text>`,
			marginLeft-6, y+4, v)
	}
}

// BarChart draws one bar per channel with the channel's mean score.
func BarChart(scores []ChannelScore) template.HTML {
	var buf bytes.Buffer
	openSVG(&buf, "Average Sentiment Score by Channel", chartWidth, chartHeight)
	axes(&buf, 100, 4, "%.0f")

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)
	if n := len(scores); n > 0 {
		slot := plotW / float64(n)
		barW := math.Min(slot*0.6, 80)
		for i, s := range scores {
			h := plotH * math.Max(0, math.Min(100, s.Mean)) / 100
			x := float64(marginLeft) + slot*float64(i) + (slot-barW)/2
			y := float64(chartHeight-marginBot) - h
			fmt.Fprintf(&buf, `<rect class="bar" data-channel="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
				html.EscapeString(s.Channel), x, y, barW, h, scoreColor(s.Mean))
			fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="11" fill="#e2e8f0" text-anchor="middle">%.1f</text>`,
				x+barW/2, y-4, s.Mean)
			fmt.Fprintf(&buf, `<text x="%.1f" y="%d" font-size="12" fill="#e2e8f0" text-anchor="middle">%s</text>`,
				x+barW/2, chartHeight-marginBot+18, html.EscapeString(s.Channel))
		}
	}
	buf.WriteString(`</svg>`)
	return template.HTML(buf.String())
}

// PieChart draws the overall label distribution.
func PieChart(dist []LabelCount) template.HTML {
	const size, cx, cy, r = 320, 160.0, 140.0, 110.0

	var buf bytes.Buffer
	openSVG(&buf, "Overall Sentiment Distribution", size, size)

	total := 0
	for _, lc := range dist {
		total += lc.Count
	}

	angle := -math.Pi / 2
	for _, lc := range dist {
		if lc.Count == 0 {
			continue
		}
		frac := float64(lc.Count) / float64(total)
		color := LabelColors[lc.Label]
		if frac >= 1 {
			fmt.Fprintf(&buf, `<circle class="slice" data-label="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
				lc.Label, cx, cy, r, color)
			break
		}
		end := angle + 2*math.Pi*frac
		large := 0
		if frac > 0.5 {
			large = 1
		}
		fmt.Fprintf(&buf, `<path class="slice" data-label="%s" d="M%.2f,%.2f L%.2f,%.2f A%.1f,%.1f 0 %d 1 %.2f,%.2f Z" fill="%s"/>`,
			lc.Label, cx, cy,
			cx+r*math.Cos(angle), cy+r*math.Sin(angle),
			r, r, large,
			cx+r*math.Cos(end), cy+r*math.Sin(end),
			color)
		angle = end
	}

	for i, lc := range dist {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(lc.Count) / float64(total)
		}
		x := 16 + i*100
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, size-40, LabelColors[lc.Label])
		fmt.Fprintf(&buf, `<text x="%d" y="%d" font-size="11" fill="#e2e8f0">%s %.0f%%</text>`, x+16, size-30, lc.Label, pct)
	}
	buf.WriteString(`</svg>`)
	return template.HTML(buf.String())
}

// GroupedBarChart draws per-channel label counts side by side.
func GroupedBarChart(groups []ChannelLabels) template.HTML {
	var buf bytes.Buffer
	openSVG(&buf, "Number of Articles by Sentiment and Channel", chartWidth, chartHeight)

	maxCount := 1
	for _, g := range groups {
		for _, lc := range g.Counts {
			maxCount = max(maxCount, lc.Count)
		}
	}
	axes(&buf, float64(maxCount), maxCount, "%.0f")

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)
	if n := len(groups); n > 0 {
		slot := plotW / float64(n)
		barW := math.Min(slot*0.8/float64(len(types.Labels)), 28)
		for i, g := range groups {
			groupW := barW * float64(len(g.Counts))
			x0 := float64(marginLeft) + slot*float64(i) + (slot-groupW)/2
			for j, lc := range g.Counts {
				h := plotH * float64(lc.Count) / float64(maxCount)
				fmt.Fprintf(&buf, `<rect class="bar" data-channel="%s" data-label="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
					html.EscapeString(g.Channel), lc.Label, x0+barW*float64(j), float64(chartHeight-marginBot)-h, barW, h, LabelColors[lc.Label])
			}
			fmt.Fprintf(&buf, `<text x="%.1f" y="%d" font-size="12" fill="#e2e8f0" text-anchor="middle">%s</text>`,
				x0+groupW/2, chartHeight-marginBot+18, html.EscapeString(g.Channel))
		}
	}

	for i, label := range types.Labels {
		x := marginLeft + i*100
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, chartHeight-24, LabelColors[label])
		fmt.Fprintf(&buf, `<text x="%d" y="%d" font-size="11" fill="#e2e8f0">%s</text>`, x+16, chartHeight-14, label)
	}
	buf.WriteString(`</svg>`)
	return template.HTML(buf.String())
}
