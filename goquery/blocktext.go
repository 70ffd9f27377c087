package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements start and end a line of text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "dd": true, "details": true, "div": true,
	"dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"ul": true,
}

// hiddenElements never contribute text.
var hiddenElements = map[string]bool{
	"head": true, "noscript": true, "script": true, "style": true, "template": true,
}

type lineWriter struct {
	lines []string
	cur   strings.Builder
}

// flush ends the current line. Only the ends of the line are trimmed;
// whitespace inside it is kept as written.
func (w *lineWriter) flush() {
	line := strings.TrimSpace(w.cur.String())
	if line != "" {
		w.lines = append(w.lines, line)
	}
	w.cur.Reset()
}

// blockText renders the children of n as newline-separated lines.
func blockText(n *html.Node) string {
	w := &lineWriter{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.flush()
	return strings.Join(w.lines, "\n")
}

func (w *lineWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.cur.WriteString(n.Data)
	case html.ElementNode:
		if hiddenElements[n.Data] {
			return
		}
		if n.Data == "pre" {
			// Preformatted text is kept verbatim apart from blank lines and
			// trailing whitespace at the ends of the block.
			w.flush()
			text := strings.TrimRight(textContent(n), " \t\r\n")
			text = strings.TrimLeft(text, "\r\n")
			if strings.TrimSpace(text) != "" {
				w.lines = append(w.lines, text)
			}
			return
		}
		block := blockElements[n.Data]
		if block {
			w.flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		if block {
			w.flush()
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
