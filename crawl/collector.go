package crawl

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/postharvest"
)

var _ postharvest.SitemapCollector = (*Collector)(nil)

// Collector gathers post entries from the site's year sitemap pages.
type Collector struct {
	Documents postharvest.DocumentFetcher
	Site      postharvest.Site

	// Limiter, when set, paces the sitemap page requests.
	Limiter postharvest.DomainLimiter

	// OnYear, when set, is called after each year page is processed.
	OnYear func(CollectProgress)
}

// CollectProgress reports the result of one year partition.
type CollectProgress struct {
	Year  int
	URL   string
	Found int
	Err   error
}

// NewCollector creates a Collector for the default site.
func NewCollector(docs postharvest.DocumentFetcher) *Collector {
	return &Collector{
		Documents: docs,
		Site:      postharvest.DefaultSite(),
	}
}

// Collect fetches each year's sitemap page in ascending year order and
// returns the unique post entries. A year that cannot be fetched
// contributes no entries but does not stop the others. Returns ENOTFOUND
// if no year yields any entry.
func (c *Collector) Collect(ctx context.Context, years []int) ([]postharvest.SitemapEntry, error) {
	years = slices.Clone(years)
	slices.Sort(years)
	years = slices.Compact(years)

	var all []postharvest.SitemapEntry
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := c.collectYear(ctx, year)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.OnYear != nil {
			c.OnYear(CollectProgress{Year: year, URL: c.Site.SitemapURL(year), Found: len(entries), Err: err})
		}
		all = append(all, entries...)
	}

	all = postharvest.UniqueEntries(all)
	if len(all) == 0 {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "no posts found in sitemaps for %s", c.Site.Host)
	}
	return all, nil
}

func (c *Collector) collectYear(ctx context.Context, year int) ([]postharvest.SitemapEntry, error) {
	pageURL := c.Site.SitemapURL(year)
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "invalid sitemap URL %q: %v", pageURL, err)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, base.Host); err != nil {
			return nil, err
		}
	}

	root, err := c.Documents.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var entries []postharvest.SitemapEntry
	for _, a := range root.FindAll("a", postharvest.HasAttr("href")) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if !c.Site.IsPostURL(resolved) {
			continue
		}
		entries = append(entries, postharvest.SitemapEntry{
			URL:   resolved.String(),
			Title: strings.TrimSpace(a.Text()),
			Year:  year,
		})
	}
	return entries, nil
}
