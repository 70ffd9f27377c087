package postharvest

import (
	"regexp"
	"strings"
)

// Node is an element in a parsed document tree. It exposes the small query
// surface the extraction rules need, so the rules never depend on a specific
// parser's API.
type Node interface {
	// FindFirst returns the first descendant element with the given tag
	// that satisfies all matchers, in document order.
	FindFirst(tag string, matchers ...AttrMatcher) (Node, bool)

	// FindAll returns every descendant element with the given tag that
	// satisfies all matchers, in document order.
	FindAll(tag string, matchers ...AttrMatcher) []Node

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Text returns the concatenated text of the node and its descendants,
	// untrimmed.
	Text() string

	// BlockText returns the node's text with block-level boundaries
	// rendered as newlines. Each line is trimmed and empty lines dropped.
	BlockText() string

	// HTML returns the inner HTML of the node.
	HTML() (string, error)
}

// AttrMatcher tests a single attribute of an element. An element without
// the attribute never matches.
type AttrMatcher struct {
	Name  string
	Match func(value string) bool
}

// HasAttr matches elements carrying the attribute with any value.
func HasAttr(name string) AttrMatcher {
	return AttrMatcher{Name: name, Match: func(string) bool { return true }}
}

// AttrEquals matches elements whose attribute equals value exactly.
func AttrEquals(name, value string) AttrMatcher {
	return AttrMatcher{Name: name, Match: func(v string) bool { return v == value }}
}

// AttrMatches matches elements whose attribute contains a match of re.
func AttrMatches(name string, re *regexp.Regexp) AttrMatcher {
	return AttrMatcher{Name: name, Match: re.MatchString}
}

// HasClass matches elements whose class list contains every given class,
// in any order.
func HasClass(classes ...string) AttrMatcher {
	return AttrMatcher{Name: "class", Match: func(v string) bool {
		tokens := strings.Fields(v)
		for _, want := range classes {
			found := false
			for _, tok := range tokens {
				if tok == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}}
}

// MatchAll reports whether the attribute lookup satisfies every matcher.
// Implementations of Node use it to apply matchers uniformly.
func MatchAll(attr func(name string) (string, bool), matchers []AttrMatcher) bool {
	for _, m := range matchers {
		v, ok := attr(m.Name)
		if !ok || !m.Match(v) {
			return false
		}
	}
	return true
}
