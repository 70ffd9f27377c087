package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements postharvest.Converter at compile time.
var _ postharvest.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraphs and headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Intro</p><h2>Section 1</h2>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Intro")
		assert.Contains(t, md, "## Section 1")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		html := `<pre><code class="language-go">func main() {}</code></pre>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, "func main() {}")
	})

	t.Run("converts images and links", func(t *testing.T) {
		t.Parallel()

		html := `<p><a href="https://blog.bytebytego.com/p/next">Next</a></p><img src="https://cdn/diagram.png" alt="diagram">`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Next](https://blog.bytebytego.com/p/next)")
		assert.Contains(t, md, "![diagram](https://cdn/diagram.png)")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Protocol</th></tr></thead><tbody><tr><td>HTTP/3</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Protocol |")
		assert.Contains(t, md, "HTTP/3")
	})

	t.Run("drops subscribe widgets", func(t *testing.T) {
		t.Parallel()

		html := `<p>Body</p><form><input type="email"><button>Subscribe</button></form>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Body")
		assert.NotContains(t, md, "Subscribe")
	})

	t.Run("removed tags are configurable", func(t *testing.T) {
		t.Parallel()

		html := `<p>Body</p><aside>Sponsor</aside>`

		md, err := htmltomarkdown.NewConverter(htmltomarkdown.WithRemovedTags("aside")).Convert(html)

		require.NoError(t, err)
		assert.NotContains(t, md, "Sponsor")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, postharvest.EINVALID, postharvest.ErrorCode(err))
	})
}
