package analysis

import (
	"bytes"
	"fmt"
	"html"

	"github.com/mattn/go-runewidth"
)

const (
	cloudWidth   = 800
	cloudHeight  = 400
	cloudPadding = 12
	maxFontSize  = 56.0
	minFontSize  = 14.0
)

var cloudPalette = []string{"#f4d35e", "#ee964b", "#f95738", "#0fa3b1", "#b5e2fa", "#eddea4", "#90be6d"}

type placedWord struct {
	text  string
	size  float64
	width float64
	color string
}

// RenderWordCloud lays keywords out as an SVG image, largest first, in
// centered rows on a black background. Keywords are expected in rank order.
// It returns nil when there are no keywords.
func RenderWordCloud(keywords []string) []byte {
	if len(keywords) == 0 {
		return nil
	}

	var rows [][]placedWord
	var rowHeights []float64
	var row []placedWord
	rowWidth, rowHeight, used := 0.0, 0.0, float64(cloudPadding)

	flush := func() {
		if len(row) > 0 {
			rows = append(rows, row)
			rowHeights = append(rowHeights, rowHeight)
			used += rowHeight
		}
		row, rowWidth, rowHeight = nil, 0, 0
	}

	for i, kw := range keywords {
		w := placedWord{
			text:  kw,
			size:  fontSize(i, len(keywords)),
			color: cloudPalette[i%len(cloudPalette)],
		}
		w.width = float64(runewidth.StringWidth(kw)) * w.size * 0.6
		if w.width > cloudWidth-2*cloudPadding {
			continue
		}
		if rowWidth+w.width > cloudWidth-2*cloudPadding {
			flush()
		}
		lineHeight := w.size * 1.2
		if used+max(rowHeight, lineHeight) > cloudHeight-cloudPadding {
			break
		}
		row = append(row, w)
		rowWidth += w.width + w.size*0.4
		rowHeight = max(rowHeight, lineHeight)
	}
	flush()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		cloudWidth, cloudHeight, cloudWidth, cloudHeight)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="black"/>`)

	y := float64(cloudPadding)
	for i, r := range rows {
		total := 0.0
		for j, w := range r {
			total += w.width
			if j > 0 {
				total += w.size * 0.4
			}
		}
		x := (cloudWidth - total) / 2
		baseline := y + rowHeights[i]*0.85
		for _, w := range r {
			fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`,
				x, baseline, w.size, w.color, html.EscapeString(w.text))
			x += w.width + w.size*0.4
		}
		y += rowHeights[i]
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

// fontSize scales linearly from maxFontSize for the first keyword down to
// minFontSize for the last.
func fontSize(rank, n int) float64 {
	if n <= 1 {
		return maxFontSize
	}
	return maxFontSize - (maxFontSize-minFontSize)*float64(rank)/float64(n-1)
}
