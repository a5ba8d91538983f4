// Package htmltext strips markup from store-managed HTML so it can be fed
// to the generation provider or shown as plain text.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StripTags removes every tag not in allowed, keeping text content. Script
// and style bodies are dropped outright. HTML entities are decoded.
func StripTags(fragment string, allowed ...string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, tag := range allowed {
		allowedSet[strings.ToLower(tag)] = true
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		renderChildren(&b, n, allowedSet)
	}

	out := strings.ReplaceAll(b.String(), " ", " ")
	return strings.TrimSpace(out)
}

// Text returns the plain-text content of an HTML fragment.
func Text(fragment string) string {
	return StripTags(fragment)
}

// Truncate cuts s to at most max runes. Generation context fields are
// length-capped before being sent to the provider.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func renderChildren(b *strings.Builder, n *html.Node, allowed map[string]bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, allowed)
	}
}

func renderNode(b *strings.Builder, n *html.Node, allowed map[string]bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if tag == "script" || tag == "style" {
			return
		}
		if allowed[tag] {
			b.WriteString("<" + tag + ">")
			renderChildren(b, n, allowed)
			b.WriteString("</" + tag + ">")
			return
		}
		renderChildren(b, n, allowed)
	default:
		renderChildren(b, n, allowed)
	}
}
