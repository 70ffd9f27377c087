package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/postharvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Collector postharvest.SitemapCollector
	Extractor postharvest.PostExtractor

	// Store and Reports are nil when saving is disabled.
	Store   postharvest.PostStore
	Reports postharvest.ReportWriter

	// Archive is set for the commands that read stored results.
	Archive postharvest.Archive

	Years     []int
	Filter    *postharvest.URLFilter
	RateLimit time.Duration
	Pause     func(ctx context.Context, d time.Duration) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Collect CollectCmd `cmd:"" help:"List post URLs discovered in the sitemaps"`
	Extract ExtractCmd `cmd:"" help:"Extract a single post and print it as JSON"`
	Run     RunCmd     `cmd:"" help:"Collect, extract and save every post"`
	Status  StatusCmd  `cmd:"" help:"Show stored post count and the last run summary"`
	List    ListCmd    `cmd:"" help:"List stored post slugs"`
	Show    ShowCmd    `cmd:"" help:"Print a stored post as JSON"`
}

// Globals are the flags shared by all commands.
type Globals struct {
	Host        string        `default:"blog.bytebytego.com" help:"Blog host to crawl"`
	Years       []int         `default:"2021,2022,2023,2024,2025" help:"Sitemap years to collect"`
	Source      string        `enum:"html,xml" default:"html" help:"Sitemap source: yearly HTML pages or sitemap.xml"`
	Filter      []string      `short:"F" help:"Only keep URLs matching regex (repeatable)"`
	Exclude     []string      `short:"X" help:"Drop URLs matching regex (repeatable)"`
	RateLimit   float64       `env:"RATE_LIMIT" default:"1.0" help:"Seconds to wait between post requests"`
	Save        bool          `env:"DEBUG_FILE_LOGS" default:"true" negatable:"" help:"Write posts and reports to the store"`
	Output      string        `short:"o" env:"POSTHARVEST_OUTPUT" default:"_local-testing-data" help:"Output directory"`
	Store       string        `env:"POSTHARVEST_STORE" enum:"fs,sqlite" default:"fs" help:"Post store backend"`
	DB          string        `env:"POSTHARVEST_DB" help:"SQLite database path (default <output>/posts.db)"`
	Timeout     time.Duration `default:"10s" help:"Per-request timeout"`
	Markdown    bool          `help:"Also convert post bodies to Markdown"`
	MetricsFile string        `help:"Write Prometheus metrics to this file after the command"`
	Debug       bool          `env:"POSTHARVEST_DEBUG" help:"Log every fetch, extraction and store call to stderr"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct{}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Post URL"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct{}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Limit  int `short:"n" help:"Maximum number of slugs to print (0 for all)"`
	Offset int `help:"Number of slugs to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Slug string `arg:"" help:"Post slug"`
}
