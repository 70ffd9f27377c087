package postharvest_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/postharvest"
	"github.com/stretchr/testify/assert"
)

func attrs(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestHasClass(t *testing.T) {
	t.Parallel()

	t.Run("matches when all classes are present in any order", func(t *testing.T) {
		t.Parallel()

		m := postharvest.HasClass("body", "markup")

		assert.True(t, m.Match("markup body"))
		assert.True(t, m.Match("available-content body markup"))
	})

	t.Run("rejects partial token matches", func(t *testing.T) {
		t.Parallel()

		m := postharvest.HasClass("post-title")

		assert.False(t, m.Match("post-title-wrapper"))
		assert.False(t, m.Match(""))
	})
}

func TestMatchAll(t *testing.T) {
	t.Parallel()

	t.Run("requires every matcher", func(t *testing.T) {
		t.Parallel()

		lookup := attrs(map[string]string{"type": "application/ld+json", "class": "x"})

		assert.True(t, postharvest.MatchAll(lookup, []postharvest.AttrMatcher{
			postharvest.AttrEquals("type", "application/ld+json"),
			postharvest.HasAttr("class"),
		}))
		assert.False(t, postharvest.MatchAll(lookup, []postharvest.AttrMatcher{
			postharvest.AttrEquals("type", "application/ld+json"),
			postharvest.HasAttr("id"),
		}))
	})

	t.Run("matches regular expressions anywhere in the value", func(t *testing.T) {
		t.Parallel()

		lookup := attrs(map[string]string{"aria-label": "Like (42)"})

		assert.True(t, postharvest.MatchAll(lookup, []postharvest.AttrMatcher{
			postharvest.AttrMatches("aria-label", regexp.MustCompile(`Like \(\d+\)`)),
		}))
	})

	t.Run("no matchers always match", func(t *testing.T) {
		t.Parallel()

		assert.True(t, postharvest.MatchAll(attrs(nil), nil))
	})
}
