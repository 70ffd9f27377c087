package extract

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/postharvest"
)

// ParseStructuredData reads the consumed fields of a JSON-LD block.
// Fields that are absent or not strings are left nil. An author given as a
// single object is treated like a one-element list.
func ParseStructuredData(raw string) (postharvest.Metadata, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return postharvest.Metadata{}, postharvest.Errorf(postharvest.EINVALID, "malformed structured data: %v", err)
	}

	md := postharvest.Metadata{
		Headline:      stringField(data, "headline"),
		Description:   stringField(data, "description"),
		DatePublished: stringField(data, "datePublished"),
		DateModified:  stringField(data, "dateModified"),
	}

	if author := firstAuthor(data["author"]); author != nil {
		md.Author = stringField(author, "name")
		md.AuthorURL = stringField(author, "url")
	}

	return md, nil
}

func firstAuthor(v any) map[string]any {
	switch a := v.(type) {
	case []any:
		if len(a) == 0 {
			return nil
		}
		m, _ := a[0].(map[string]any)
		return m
	case map[string]any:
		return a
	}
	return nil
}

func stringField(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}
