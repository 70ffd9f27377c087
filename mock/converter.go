package mock

import "github.com/fwojciec/postharvest"

var _ postharvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of postharvest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
