package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/crawl"
	"github.com/fwojciec/postharvest/extract"
	"github.com/fwojciec/postharvest/fs"
	"github.com/fwojciec/postharvest/goquery"
	"github.com/fwojciec/postharvest/htmltomarkdown"
	phhttp "github.com/fwojciec/postharvest/http"
	"github.com/fwojciec/postharvest/prometheus"
	phslog "github.com/fwojciec/postharvest/slog"
	"github.com/fwojciec/postharvest/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened only when the sqlite store is selected.
	DB *sqlite.DB

	// Services for end-to-end testing. Real implementations are wired
	// when these are nil.
	Fetcher   postharvest.Fetcher
	Collector postharvest.SitemapCollector
	Pause     func(ctx context.Context, d time.Duration) error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Pause:  m.Pause,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postharvest"),
		kong.Description("Harvest structured post records from a Substack-style blog."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postharvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]
	g := &cli.Globals

	if g.RateLimit < 0 {
		return fmt.Errorf("--rate-limit must not be negative, got %g", g.RateLimit)
	}
	deps.RateLimit = time.Duration(g.RateLimit * float64(time.Second))
	deps.Years = g.Years

	deps.Filter, err = compileFilter(g.Filter, g.Exclude)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if g.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var metrics *prometheus.Metrics
	if g.MetricsFile != "" {
		metrics = prometheus.NewMetrics()
	}

	// Fetch and parse
	var fetcher postharvest.Fetcher = m.Fetcher
	if fetcher == nil {
		fetcher = phhttp.NewFetcher(phhttp.WithTimeout(g.Timeout))
	}
	if logger != nil {
		fetcher = phslog.NewLoggingFetcher(fetcher, logger)
	}
	defer fetcher.Close()
	docs := goquery.NewDocumentFetcher(fetcher)

	// Extraction
	ext := extract.NewExtractor(docs)
	if g.Markdown {
		ext.Converter = htmltomarkdown.NewConverter()
	}
	deps.Extractor = ext
	if logger != nil {
		deps.Extractor = phslog.NewLoggingExtractor(deps.Extractor, logger)
	}
	if metrics != nil {
		deps.Extractor = prometheus.NewInstrumentedExtractor(deps.Extractor, metrics)
	}

	// Discovery
	site := postharvest.Site{Scheme: "https", Host: g.Host}
	deps.Collector = m.Collector
	if deps.Collector == nil {
		deps.Collector = newCollector(g, site, docs, logger, stderr)
	}
	if logger != nil {
		deps.Collector = phslog.NewLoggingCollector(deps.Collector, logger)
	}

	// Storage
	switch command {
	case "collect", "run":
		if !g.Save {
			break
		}
		store, err := m.openStore(g, stderr)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Store, deps.Reports = store, store
		if logger != nil {
			deps.Store = phslog.NewLoggingPostStore(deps.Store, logger)
		}
		if metrics != nil {
			deps.Store = prometheus.NewInstrumentedPostStore(deps.Store, metrics)
		}
	case "status", "list", "show":
		store, err := m.openStore(g, stderr)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Archive = store
	}

	err = kongCtx.Run(deps)

	if metrics != nil {
		if werr := metrics.WriteToTextfile(g.MetricsFile); werr != nil {
			fmt.Fprintf(stderr, "error: writing metrics: %v\n", werr)
			if err == nil {
				err = werr
			}
		}
	}
	return err
}

// newCollector builds the sitemap source selected by --source. Both sources
// pace their requests with the same per-host limiter.
func newCollector(g *Globals, site postharvest.Site, docs postharvest.DocumentFetcher, logger *slog.Logger, stderr io.Writer) postharvest.SitemapCollector {
	limiter := crawl.NewDomainLimiterEvery(time.Duration(g.RateLimit * float64(time.Second)))

	if g.Source == "xml" {
		client := &http.Client{Timeout: g.Timeout}
		if logger != nil {
			client.Transport = phslog.NewLoggingTransport(nil, logger)
		}
		svc := phhttp.NewSitemapService(client, site)
		svc.Limiter = limiter
		return svc
	}

	c := crawl.NewCollector(docs)
	c.Site = site
	c.Limiter = limiter
	c.OnYear = func(p crawl.CollectProgress) {
		if p.Err != nil {
			fmt.Fprintf(stderr, "  skip sitemap %d: %s\n", p.Year, postharvest.ErrorMessage(p.Err))
			return
		}
		fmt.Fprintf(stderr, "  sitemap %d: %d posts\n", p.Year, p.Found)
	}
	return c
}

// backend is what both stores provide.
type backend interface {
	postharvest.PostStore
	postharvest.ReportWriter
	postharvest.Archive
}

// openStore opens the backend selected by --store.
func (m *Main) openStore(g *Globals, stderr io.Writer) (backend, error) {
	if g.Store != "sqlite" {
		return fs.NewStore(g.Output), nil
	}

	path := g.DB
	if path == "" {
		path = filepath.Join(g.Output, "posts.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTHARVEST_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewStore(m.DB), nil
}

// compileFilter validates the regex patterns early so a typo fails before
// any request is made.
func compileFilter(include, exclude []string) (*postharvest.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &postharvest.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
