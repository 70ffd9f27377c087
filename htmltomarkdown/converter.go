// Package htmltomarkdown renders post body HTML as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/postharvest"
)

// Ensure Converter implements postharvest.Converter at compile time.
var _ postharvest.Converter = (*Converter)(nil)

// DefaultRemovedTags are interactive elements embedded in post bodies that
// carry no article content.
var DefaultRemovedTags = []string{"button", "form", "input", "svg"}

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	removed []string
}

// WithRemovedTags replaces the list of elements dropped before conversion.
func WithRemovedTags(tags ...string) Option {
	return func(o *options) {
		o.removed = tags
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	o := options{removed: DefaultRemovedTags}
	for _, opt := range opts {
		opt(&o)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range o.removed {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", postharvest.Errorf(postharvest.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}
