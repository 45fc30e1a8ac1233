package report

import (
	"html/template"

	"github.com/russross/blackfriday/v2"
)

// summaryHTML renders a summary as HTML. LLM summaries often carry markdown
// emphasis or lists; raw HTML in the input is dropped.
func summaryHTML(summary string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.NofollowLinks,
	})
	out := blackfriday.Run([]byte(summary),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)
	return template.HTML(out)
}
