// Package goquery implements postharvest.Node on top of goquery, and a
// DocumentFetcher that parses fetched HTML into such nodes.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postharvest"
)

// Ensure Node implements postharvest.Node at compile time.
var _ postharvest.Node = (*Node)(nil)

// Node wraps a single-element goquery selection.
type Node struct {
	sel *goquery.Selection
}

// Parse parses an HTML document and returns its root node.
func Parse(html string) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Node{sel: doc.Selection}, nil
}

// FindFirst returns the first matching descendant in document order.
func (n *Node) FindFirst(tag string, matchers ...postharvest.AttrMatcher) (postharvest.Node, bool) {
	sel := n.find(tag, matchers).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Node{sel: sel}, true
}

// FindAll returns all matching descendants in document order.
func (n *Node) FindAll(tag string, matchers ...postharvest.AttrMatcher) []postharvest.Node {
	sel := n.find(tag, matchers)
	nodes := make([]postharvest.Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

func (n *Node) find(tag string, matchers []postharvest.AttrMatcher) *goquery.Selection {
	if tag == "" {
		tag = "*"
	}
	return n.sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return postharvest.MatchAll(s.Attr, matchers)
	})
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// Text returns the combined text of the node and its descendants.
func (n *Node) Text() string {
	return n.sel.Text()
}

// BlockText returns the node's text with one line per block-level element.
func (n *Node) BlockText() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return blockText(n.sel.Nodes[0])
}

// HTML returns the inner HTML of the node.
func (n *Node) HTML() (string, error) {
	return n.sel.Html()
}
