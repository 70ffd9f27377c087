package postharvest

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// PostPathMarker is the path segment that identifies post URLs.
const PostPathMarker = "/p/"

// DefaultHost is the blog domain crawled when none is configured.
const DefaultHost = "blog.bytebytego.com"

// SitemapEntry is a post link discovered in a sitemap partition.
type SitemapEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// SitemapCollector discovers post entries from year-partitioned sitemaps.
type SitemapCollector interface {
	// Collect returns the unique entries for the given years, ordered by
	// year ascending and then by document order within each year.
	// Returns ENOTFOUND if no entries are discovered for any year.
	Collect(ctx context.Context, years []int) ([]SitemapEntry, error)
}

// Site describes the crawled platform instance.
type Site struct {
	Scheme string
	Host   string
}

// DefaultSite returns the site crawled when none is configured.
func DefaultSite() Site {
	return Site{Scheme: "https", Host: DefaultHost}
}

// SitemapURL returns the sitemap page URL for a year partition.
func (s Site) SitemapURL(year int) string {
	scheme := s.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/sitemap/%d", scheme, s.Host, year)
}

// IsPostURL reports whether u points at a post on this site: the host must
// match and the path must contain the post marker.
func (s Site) IsPostURL(u *url.URL) bool {
	return strings.EqualFold(u.Hostname(), hostOnly(s.Host)) &&
		strings.Contains(u.Path, PostPathMarker)
}

func hostOnly(host string) string {
	if u, err := url.Parse("//" + host); err == nil {
		return u.Hostname()
	}
	return host
}

// UniqueEntries removes entries whose URL was already seen. The first
// occurrence wins and order is preserved.
func UniqueEntries(entries []SitemapEntry) []SitemapEntry {
	seen := make(map[string]bool, len(entries))
	unique := make([]SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		unique = append(unique, e)
	}
	return unique
}

// Slug returns the storage key for a post URL: the substring following the
// last post path marker. Distinct URLs sharing a trailing slug collide.
func Slug(rawURL string) (string, error) {
	idx := strings.LastIndex(rawURL, PostPathMarker)
	if idx == -1 {
		return "", Errorf(EINVALID, "no %s segment in URL %q", PostPathMarker, rawURL)
	}
	slug := rawURL[idx+len(PostPathMarker):]
	if slug == "" {
		return "", Errorf(EINVALID, "empty slug in URL %q", rawURL)
	}
	return slug, nil
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// FilterEntries returns the entries whose URL passes the filter.
func FilterEntries(entries []SitemapEntry, filter *URLFilter) []SitemapEntry {
	if filter == nil {
		return entries
	}
	filtered := make([]SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Match(e.URL) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
