package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// TagName returns the lowercased tag name of an element in the html namespace.
// Foreign elements (svg, math) and non-element nodes report false so that an
// <svg:form> is never mistaken for a <form>.
func TagName(node *html.Node) (string, bool) {
	if node == nil || node.Type != html.ElementNode {
		return "", false
	}
	if node.Namespace != "" {
		return "", false
	}
	return strings.ToLower(node.Data), true
}

// Attr returns the value of the first attribute without a namespace whose key
// is exactly `name`.
func Attr(node *html.Node, name string) (string, bool) {
	if node == nil || node.Type != html.ElementNode {
		return "", false
	}
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent joins the trimmed text of every text node under `node`
// (breadth-first) with single spaces.
func TextContent(node *html.Node) string {
	var out strings.Builder
	Walk(node, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return true
		}
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return true
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(text)
		return true
	})
	return strings.TrimSpace(out.String())
}
