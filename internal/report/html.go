package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Form is the state of the analysis form.
type Form struct {
	Channels    []ChannelOption
	Topic       string
	MaxArticles int
	Limit       int
	Summarize   bool
	WordCloud   bool
}

// ChannelOption is one selectable channel.
type ChannelOption struct {
	Name     string
	Selected bool
}

// Page is everything the HTML template shows. Form is nil for a static
// report and Report is nil before the first run.
type Page struct {
	Title       string
	Form        *Form
	Report      *pipeline.Report
	Error       string
	GeneratedAt time.Time
}

type articleView struct {
	Index   int
	Record  *types.ArticleRecord
	Summary template.HTML
	Cloud   template.HTML
}

type sectionView struct {
	Channel  string
	Notices  []pipeline.Notice
	Articles []articleView
}

type pageView struct {
	Page
	Sections []sectionView
	Notices  []pipeline.Notice
	Bar      template.HTML
	Pie      template.HTML
	Grouped  template.HTML
}

func buildView(p Page) pageView {
	v := pageView{Page: p}
	if p.Report == nil {
		return v
	}

	for _, cr := range p.Report.Channels {
		s := sectionView{Channel: cr.Channel, Notices: cr.Notices}
		for i, rec := range cr.Records {
			av := articleView{Index: i + 1, Record: rec}
			if rec.Summary != "" {
				av.Summary = summaryHTML(rec.Summary)
			}
			if rec.HasWordCloud() {
				av.Cloud = template.HTML(rec.WordCloud)
			}
			s.Articles = append(s.Articles, av)
		}
		v.Sections = append(v.Sections, s)
	}
	// Run-level notices are the ones without a channel.
	for _, n := range p.Report.Notices {
		if n.Channel == "" {
			v.Notices = append(v.Notices, n)
		}
	}

	if recs := p.Report.Records; len(recs) > 0 {
		v.Bar = BarChart(MeanScoreByChannel(recs))
		v.Pie = PieChart(LabelDistribution(recs))
		v.Grouped = GroupedBarChart(LabelCountsByChannel(recs))
	}
	return v
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"score": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"color": func(label string) string { return LabelColors[label] },
	"stamp": func(t time.Time) string { return t.Format(time.RFC1123) },
}).Parse(pageHTML))

// Render writes the page as HTML.
func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "News Sentiment Analysis"
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}
	return pageTemplate.Execute(w, buildView(p))
}

// WriteFile renders the page to path, creating parent directories.
func WriteFile(path string, p Page) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Render(f, p); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .header .sub { color: #94a3b8; font-size: 0.875rem; margin-top: 0.25rem; }
        main { padding: 2rem; max-width: 1200px; margin: 0 auto; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; margin-bottom: 1rem; }
        .card h2 { font-size: 1.1rem; margin-bottom: 0.75rem; }
        form label { display: block; margin: 0.5rem 0 0.25rem; color: #94a3b8; font-size: 0.8rem; text-transform: uppercase; letter-spacing: 0.05em; }
        form input[type=text], form input[type=number] { background: #0f172a; color: #e2e8f0; border: 1px solid #475569; border-radius: 6px; padding: 0.5rem; width: 100%; max-width: 420px; }
        .channels { display: flex; flex-wrap: wrap; gap: 0.75rem; }
        .channels label, .toggles label { display: inline-flex; gap: 0.35rem; text-transform: none; letter-spacing: 0; color: #e2e8f0; font-size: 0.9rem; }
        button { margin-top: 1rem; background: #38bdf8; color: #0f172a; border: 0; border-radius: 6px; padding: 0.6rem 1.4rem; font-weight: 600; cursor: pointer; }
        .notice { padding: 0.5rem 0.75rem; border-radius: 6px; margin: 0.35rem 0; font-size: 0.875rem; }
        .notice.info { background: #0c4a6e; color: #bae6fd; }
        .notice.warning { background: #854d0e; color: #fde047; }
        .notice.error { background: #991b1b; color: #fca5a5; }
        details { background: #0f172a; border: 1px solid #334155; border-radius: 8px; margin: 0.5rem 0; padding: 0.75rem 1rem; }
        summary { cursor: pointer; font-weight: 600; }
        .label { display: inline-block; padding: 0.1rem 0.6rem; border-radius: 9999px; font-size: 0.8rem; font-weight: 600; color: #0f172a; }
        .field { margin-top: 0.5rem; font-size: 0.9rem; }
        .field a { color: #38bdf8; word-break: break-all; }
        .charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(340px, 1fr)); gap: 1rem; }
        svg.chart, .cloud svg { max-width: 100%; height: auto; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        {{with .Report}}<div class="sub">Topic: {{.Topic}}</div>{{end}}
    </div>
    <main>
    {{with .Form}}
        <div class="card">
            <h2>Analyze</h2>
            <form method="post" action="/analyze">
                <label>News channels</label>
                <div class="channels">
                {{range .Channels}}<label><input type="checkbox" name="channel" value="{{.Name}}"{{if .Selected}} checked{{end}}> {{.Name}}</label>{{end}}
                </div>
                <label for="topic">Topic</label>
                <input type="text" id="topic" name="topic" value="{{.Topic}}" required>
                <label for="articles">Articles per channel (1-{{.Limit}})</label>
                <input type="number" id="articles" name="articles" min="1" max="{{.Limit}}" value="{{.MaxArticles}}">
                <label>Analysis options</label>
                <div class="toggles">
                    <label><input type="checkbox" name="summarize" value="1"{{if .Summarize}} checked{{end}}> Generate article summaries</label>
                    <label><input type="checkbox" name="wordcloud" value="1"{{if .WordCloud}} checked{{end}}> Generate word clouds</label>
                </div>
                <button type="submit">Analyze</button>
            </form>
        </div>
    {{end}}
    {{if .Error}}<div class="notice error">{{.Error}}</div>{{end}}
    {{range .Notices}}<div class="notice {{.Level}}">{{.Message}}</div>{{end}}
    {{range .Sections}}
        <div class="card">
            <h2>Analyzing {{.Channel}}</h2>
            {{range .Notices}}{{if not .URL}}<div class="notice {{.Level}}">{{.Message}}</div>{{end}}{{end}}
            {{$channel := .Channel}}{{$notices := .Notices}}
            {{range .Articles}}
            <details>
                <summary>Article #{{.Index}} from {{$channel}}</summary>
                <div class="field"><strong>URL:</strong> <a href="{{.Record.URL}}" rel="noopener noreferrer">{{.Record.URL}}</a></div>
                {{with .Record.Title}}<div class="field"><strong>Title:</strong> {{.}}</div>{{end}}
                {{with .Record.Author}}<div class="field"><strong>Author:</strong> {{.}}</div>{{end}}
                {{$url := .Record.URL}}{{range $notices}}{{if eq .URL $url}}<div class="notice {{.Level}}">{{.Message}}</div>{{end}}{{end}}
                <div class="field"><strong>Sentiment:</strong> <span class="label" style="background: {{color .Record.Sentiment.Label}}">{{.Record.Sentiment.Label}}</span> ({{score .Record.Sentiment.Score}})</div>
                {{if .Summary}}<div class="field"><strong>Summary:</strong> {{.Summary}}</div>{{end}}
                {{if .Cloud}}<div class="field cloud"><strong>Word Cloud:</strong><br>{{.Cloud}}</div>{{end}}
            </details>
            {{end}}
            {{range .Notices}}{{if and .URL (eq .Level "error")}}<div class="notice error">{{.URL}}: {{.Message}}</div>{{end}}{{end}}
        </div>
    {{end}}
    {{if .Bar}}
        <div class="charts">
            <div class="card"><h2>Average Sentiment Score by Channel</h2>{{.Bar}}</div>
            <div class="card"><h2>Overall Sentiment Distribution</h2>{{.Pie}}</div>
        </div>
        <div class="card"><h2>Sentiment Distribution by Channel</h2>{{.Grouped}}</div>
    {{end}}
    </main>
    <div class="footer">Generated {{stamp .GeneratedAt}}</div>
</body>
</html>`
