// Package extract implements the post extraction rules for the blog
// platform over the abstract postharvest.Node tree.
package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/postharvest"
)

// Ensure Extractor implements postharvest.PostExtractor at compile time.
var _ postharvest.PostExtractor = (*Extractor)(nil)

// Markup names the platform markers the extraction rules look for.
type Markup struct {
	TitleTag    string
	TitleClass  string
	BodyTag     string
	BodyClasses []string

	// ArticleTag and ArticleClass locate the subtree scanned for code
	// snippets and images.
	ArticleTag   string
	ArticleClass string

	StructuredDataType string
	LanguagePrefix     string

	// MinImageSize is the smallest width and height an image with numeric
	// dimensions may have and still be kept.
	MinImageSize int
}

// DefaultMarkup returns the markers used by the blog platform.
func DefaultMarkup() Markup {
	return Markup{
		TitleTag:           "h1",
		TitleClass:         "post-title",
		BodyTag:            "div",
		BodyClasses:        []string{"body", "markup"},
		ArticleTag:         "article",
		ArticleClass:       "newsletter-post",
		StructuredDataType: "application/ld+json",
		LanguagePrefix:     "language-",
		MinImageSize:       100,
	}
}

// Extractor builds Post records from fetched documents. Missing markup
// degrades to absent fields; only fetch and context errors are returned.
type Extractor struct {
	Documents  postharvest.DocumentFetcher
	Markup     Markup
	Engagement EngagementPatterns

	// Converter, when set, fills ContentMarkdown from the body container.
	Converter postharvest.Converter
}

// NewExtractor creates an Extractor with the default markup and engagement
// patterns.
func NewExtractor(docs postharvest.DocumentFetcher) *Extractor {
	return &Extractor{
		Documents:  docs,
		Markup:     DefaultMarkup(),
		Engagement: DefaultEngagementPatterns(),
	}
}

// Extract fetches the document at url and extracts its post record.
func (e *Extractor) Extract(ctx context.Context, url string) (*postharvest.Post, error) {
	root, err := e.Documents.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return e.ExtractNode(url, root), nil
}

// ExtractNode applies the extraction rules to an already parsed document.
// The result depends only on the document, so repeated calls are identical.
func (e *Extractor) ExtractNode(url string, root postharvest.Node) *postharvest.Post {
	post := &postharvest.Post{
		URL:          url,
		Title:        e.title(root),
		Metadata:     e.metadata(root),
		CodeSnippets: []postharvest.CodeSnippet{},
		Images:       []postharvest.Image{},
	}

	if body, ok := root.FindFirst(e.Markup.BodyTag, postharvest.HasClass(e.Markup.BodyClasses...)); ok {
		post.ContentText = postharvest.String(body.BlockText())
		post.ContentMarkdown = e.markdown(body)
	}

	if article, ok := root.FindFirst(e.Markup.ArticleTag, postharvest.HasClass(e.Markup.ArticleClass)); ok {
		post.CodeSnippets = e.codeSnippets(article)
		post.Images = e.images(article)
	}

	return post
}

func (e *Extractor) title(root postharvest.Node) *string {
	h, ok := root.FindFirst(e.Markup.TitleTag, postharvest.HasClass(e.Markup.TitleClass))
	if !ok {
		return nil
	}
	return postharvest.String(strings.TrimSpace(h.Text()))
}

func (e *Extractor) markdown(body postharvest.Node) *string {
	if e.Converter == nil {
		return nil
	}
	html, err := body.HTML()
	if err != nil {
		return nil
	}
	md, err := e.Converter.Convert(html)
	if err != nil {
		return nil
	}
	return postharvest.String(md)
}

func (e *Extractor) metadata(root postharvest.Node) postharvest.Metadata {
	var md postharvest.Metadata
	if script, ok := root.FindFirst("script", postharvest.AttrEquals("type", e.Markup.StructuredDataType)); ok {
		parsed, err := ParseStructuredData(script.Text())
		if err == nil {
			md = parsed
		}
		// Malformed structured data leaves the metadata empty.
	}

	md.Likes = e.engagement(root, e.Engagement.Likes)
	md.Comments = e.engagement(root, e.Engagement.Comments)
	return md
}

func (e *Extractor) engagement(root postharvest.Node, re *regexp.Regexp) *int {
	if re == nil {
		return nil
	}
	button, ok := root.FindFirst("button", postharvest.AttrMatches("aria-label", re))
	if !ok {
		return nil
	}
	label, _ := button.Attr("aria-label")
	n, ok := EngagementCount(label, re)
	if !ok {
		return nil
	}
	return postharvest.Int(n)
}

func (e *Extractor) codeSnippets(article postharvest.Node) []postharvest.CodeSnippet {
	blocks := article.FindAll("code")
	snippets := make([]postharvest.CodeSnippet, 0, len(blocks))
	for i, block := range blocks {
		snippets = append(snippets, postharvest.CodeSnippet{
			Index:    i,
			Language: e.language(block),
			Code:     block.Text(),
		})
	}
	return snippets
}

func (e *Extractor) language(block postharvest.Node) *string {
	class, ok := block.Attr("class")
	if !ok {
		return nil
	}
	for _, tok := range strings.Fields(class) {
		if lang, found := strings.CutPrefix(tok, e.Markup.LanguagePrefix); found {
			return postharvest.String(lang)
		}
	}
	return nil
}

func (e *Extractor) images(article postharvest.Node) []postharvest.Image {
	images := []postharvest.Image{}
	for _, img := range article.FindAll("img") {
		width, _ := img.Attr("width")
		height, _ := img.Attr("height")
		if TooSmall(width, height, e.Markup.MinImageSize) {
			continue
		}
		images = append(images, postharvest.Image{
			Index:  len(images),
			Src:    attr(img, "src"),
			Alt:    attr(img, "alt"),
			Title:  attr(img, "title"),
			Width:  attr(img, "width"),
			Height: attr(img, "height"),
		})
	}
	return images
}

// TooSmall reports whether an image should be dropped by the size filter.
// Only images whose width and height both parse as integers are candidates;
// anything else is kept.
func TooSmall(width, height string, minSize int) bool {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return false
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil {
		return false
	}
	return w < minSize || h < minSize
}

func attr(n postharvest.Node, name string) *string {
	v, ok := n.Attr(name)
	if !ok {
		return nil
	}
	return postharvest.String(v)
}
