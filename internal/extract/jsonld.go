package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// metadata is what an article page says about itself in JSON-LD and meta tags.
type metadata struct {
	Title  string
	Author string
}

// readMetadata collects the headline and author from JSON-LD blocks, falling
// back to og:title and <title> for the headline.
func readMetadata(doc *goquery.Document) metadata {
	var md metadata

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return true
		}
		for _, obj := range flattenJSONLD(data) {
			if md.Title == "" {
				md.Title = stringField(obj, "headline")
			}
			if md.Author == "" {
				md.Author = authorName(obj["author"])
			}
		}
		return md.Title == "" || md.Author == ""
	})

	if md.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			md.Title = strings.TrimSpace(og)
		}
	}
	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return md
}

// flattenJSONLD returns the objects of a JSON-LD value: a single object, a
// list of objects, or an object carrying @graph.
func flattenJSONLD(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case map[string]any:
		out = append(out, t)
		if graph, ok := t["@graph"]; ok {
			out = append(out, flattenJSONLD(graph)...)
		}
	case []any:
		for _, item := range t {
			out = append(out, flattenJSONLD(item)...)
		}
	}
	return out
}

// authorName reads a schema.org author: a name string, a Person object, or a
// list of either. The first name found wins.
func authorName(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return stringField(t, "name")
	case []any:
		for _, item := range t {
			if name := authorName(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
