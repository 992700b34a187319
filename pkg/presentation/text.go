package presentation

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText reduces a scraped HTML fragment to its text content with
// entities decoded and whitespace collapsed. Input without markup or
// entities is only trimmed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// Tags that separate words. Inline tags such as <b> join their neighbours.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true,
	"td": true, "th": true, "tr": true, "h1": true,
	"h2": true, "h3": true, "h4": true,
}
