// Package excerpt turns a blog's markdown body into sanitized HTML for the
// article page and into short plain-text summaries for meta descriptions
// and feed items.
package excerpt

import (
	"bytes"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// HTML renders markdown to HTML safe to embed in a page. Author content is
// untrusted, so scripts, handlers and unknown attributes are removed.
func HTML(markdown string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "<p>" + html.EscapeString(markdown) + "</p>"
	}
	return ugc.Sanitize(buf.String())
}

// PlainText renders markdown and strips every tag, collapsing whitespace.
func PlainText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		buf.Reset()
		buf.WriteString(markdown)
	}
	// Block boundaries become spaces once tags are gone.
	rendered := strings.NewReplacer("</p>", " </p>", "</li>", " </li>", "<br>", " ", "</h1>", " </h1>",
		"</h2>", " </h2>", "</h3>", " </h3>", "</pre>", " </pre>", "</blockquote>", " </blockquote>").Replace(buf.String())
	text := html.UnescapeString(strict.Sanitize(rendered))
	return strings.Join(strings.Fields(text), " ")
}

// Summarize returns at most limit runes of the plain text of markdown,
// cut at a word boundary and suffixed with an ellipsis when shortened.
func Summarize(markdown string, limit int) string {
	return Truncate(PlainText(markdown), limit)
}

// Truncate shortens s to at most limit runes, preferring a word boundary.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	cut := limit - 1 // room for the ellipsis
	for i := cut; i > cut/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}
