package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/postharvest"
)

// Ensure SitemapService implements postharvest.SitemapCollector.
var _ postharvest.SitemapCollector = (*SitemapService)(nil)

// SitemapService discovers post entries from a site's XML sitemaps. The
// year of each entry is taken from its <lastmod> element.
type SitemapService struct {
	client *http.Client
	site   postharvest.Site

	// Limiter, when set, paces every robots.txt and sitemap request by host.
	Limiter postharvest.DomainLimiter
}

// NewSitemapService creates a new SitemapService for site using the given
// HTTP client. If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, site postharvest.Site) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, site: site}
}

// Collect returns the unique post entries whose lastmod year is one of
// years. Entries without a parseable lastmod are kept only when years is
// empty. Returns ENOTFOUND if no entries remain.
func (s *SitemapService) Collect(ctx context.Context, years []int) ([]postharvest.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := &url.URL{Scheme: s.site.Scheme, Host: s.site.Host}
	if base.Scheme == "" {
		base.Scheme = "https"
	}

	sitemapURLs, err := s.findSitemapURLs(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "no sitemap found for %s", s.site.Host)
	}

	var all []postharvest.SitemapEntry
	seenSitemaps := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		entries, err := s.processSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	wanted := make(map[int]bool, len(years))
	for _, y := range years {
		wanted[y] = true
	}

	var kept []postharvest.SitemapEntry
	for _, e := range all {
		u, err := url.Parse(e.URL)
		if err != nil || !s.site.IsPostURL(u) {
			continue
		}
		if len(wanted) > 0 && !wanted[e.Year] {
			continue
		}
		kept = append(kept, e)
	}

	kept = postharvest.UniqueEntries(kept)
	slices.SortStableFunc(kept, func(a, b postharvest.SitemapEntry) int {
		return a.Year - b.Year
	})

	if len(kept) == 0 {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "no post URLs found in sitemaps for %s", s.site.Host)
	}
	return kept, nil
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}

	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]postharvest.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "parsing sitemap XML %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "empty sitemap XML %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}
	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]postharvest.SitemapEntry, error) {
	var all []postharvest.SitemapEntry

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		entries, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	return all, nil
}

// parseURLSet extracts entries from a <urlset> element.
func parseURLSet(root *etree.Element) []postharvest.SitemapEntry {
	var entries []postharvest.SitemapEntry
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}
		entry := postharvest.SitemapEntry{URL: u}
		if lastmod := urlEl.SelectElement("lastmod"); lastmod != nil {
			entry.Year = lastmodYear(lastmod.Text())
		}
		entries = append(entries, entry)
	}
	return entries
}

// lastmodYear returns the year of a W3C datetime, or 0 if it has none.
func lastmodYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if err := s.wait(ctx, req); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, postharvest.Errorf(postharvest.EFETCH, "fetching %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, postharvest.Errorf(postharvest.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	if err := s.wait(ctx, req); err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (s *SitemapService) wait(ctx context.Context, req *http.Request) error {
	if s.Limiter == nil {
		return nil
	}
	return s.Limiter.Wait(ctx, req.URL.Hostname())
}
