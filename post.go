package postharvest

import "context"

// Post is the structured record extracted from a single blog post.
// Optional fields are nil when the source document does not carry them.
type Post struct {
	URL             string        `json:"url"`
	Title           *string       `json:"title,omitempty"`
	ContentText     *string       `json:"content_text,omitempty"`
	ContentMarkdown *string       `json:"content_markdown,omitempty"`
	Metadata        Metadata      `json:"metadata"`
	CodeSnippets    []CodeSnippet `json:"code_snippets"`
	Images          []Image       `json:"images"`
}

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "post URL required")
	}
	return nil
}

// Metadata holds page-level metadata. String fields come from the page's
// JSON-LD block; Likes and Comments come from engagement controls.
type Metadata struct {
	Headline      *string `json:"headline,omitempty"`
	Description   *string `json:"description,omitempty"`
	DatePublished *string `json:"date_published,omitempty"`
	DateModified  *string `json:"date_modified,omitempty"`
	Author        *string `json:"author,omitempty"`
	AuthorURL     *string `json:"author_url,omitempty"`
	Likes         *int    `json:"likes,omitempty"`
	Comments      *int    `json:"comments,omitempty"`
}

// CodeSnippet is a code element found in the post article, in document order.
type CodeSnippet struct {
	Index    int     `json:"index"`
	Language *string `json:"language,omitempty"`
	Code     string  `json:"code"`
}

// Image is an image retained by the size filter. Index is the position among
// retained images. Width and Height are the raw attribute strings.
type Image struct {
	Index  int     `json:"index"`
	Src    *string `json:"src,omitempty"`
	Alt    *string `json:"alt,omitempty"`
	Title  *string `json:"title,omitempty"`
	Width  *string `json:"width,omitempty"`
	Height *string `json:"height,omitempty"`
}

// PostExtractor fetches a post and extracts its structured record.
type PostExtractor interface {
	// Extract fetches the URL and returns the extracted post.
	// Returns EFETCH if the document cannot be retrieved. Missing markup
	// never fails extraction; the corresponding fields are left nil.
	Extract(ctx context.Context, url string) (*Post, error)
}

// PostStore persists extracted posts under a storage key (the post slug).
type PostStore interface {
	// Exists reports whether a post is already stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Write stores the post under key, replacing any previous record.
	Write(ctx context.Context, key string, post *Post) error
}

// String returns a pointer to s. It is a convenience for optional fields.
func String(s string) *string {
	return &s
}

// Int returns a pointer to n. It is a convenience for optional fields.
func Int(n int) *int {
	return &n
}
