package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/postharvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ postharvest.PostStore    = (*Store)(nil)
	_ postharvest.ReportWriter = (*Store)(nil)
	_ postharvest.Archive      = (*Store)(nil)
)

// Store implements postharvest.PostStore, postharvest.ReportWriter and
// postharvest.Archive.
// Posts are stored as JSON documents keyed by slug.
type Store struct {
	db  *DB
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, now: time.Now}
}

// StoredPost is a post row with its bookkeeping columns.
type StoredPost struct {
	Slug        string
	Post        *postharvest.Post
	ContentHash string
	SavedAt     time.Time
}

// Run is a recorded batch summary.
type Run struct {
	ID         string
	Summary    *postharvest.BatchSummary
	FinishedAt time.Time
}

// Exists reports whether a post row exists for key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ?`, key).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Write upserts the post under key.
func (s *Store) Write(ctx context.Context, key string, post *postharvest.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if key == "" {
		return postharvest.Errorf(postharvest.EINVALID, "empty post key")
	}

	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	var title, content string
	if post.Title != nil {
		title = *post.Title
	}
	if post.ContentText != nil {
		content = *post.ContentText
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (slug, url, title, data, content_hash, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			data = excluded.data,
			content_hash = excluded.content_hash,
			saved_at = excluded.saved_at
	`, key, post.URL, title, string(data), hashContent(content), s.now().UTC().Format(time.RFC3339))

	return err
}

// FindPost retrieves the post stored under key.
func (s *Store) FindPost(ctx context.Context, key string) (*StoredPost, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, data, content_hash, saved_at FROM posts WHERE slug = ?
	`, key)

	sp, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "post %q not found", key)
	}
	return sp, err
}

// ReadPost returns the post stored under key.
func (s *Store) ReadPost(ctx context.Context, key string) (*postharvest.Post, error) {
	sp, err := s.FindPost(ctx, key)
	if err != nil {
		return nil, err
	}
	return sp.Post, nil
}

// PostKeys lists stored post slugs in ascending order.
func (s *Store) PostKeys(ctx context.Context, limit, offset int) ([]string, error) {
	var query strings.Builder
	var args []any
	query.WriteString("SELECT slug FROM posts ORDER BY slug ASC")
	appendPagination(&query, &args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*StoredPost, error) {
	var sp StoredPost
	var data, savedAt string
	if err := row.Scan(&sp.Slug, &data, &sp.ContentHash, &savedAt); err != nil {
		return nil, err
	}

	var post postharvest.Post
	if err := json.Unmarshal([]byte(data), &post); err != nil {
		return nil, fmt.Errorf("failed to decode post %q: %w", sp.Slug, err)
	}
	sp.Post = &post

	t, err := parseRFC3339(savedAt, "saved_at")
	if err != nil {
		return nil, err
	}
	sp.SavedAt = t
	return &sp, nil
}

// WriteEntries replaces the stored entry list with entries, keeping their
// order.
func (s *Store) WriteEntries(ctx context.Context, entries []postharvest.SitemapEntry) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return err
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries (url, title, year, position) VALUES (?, ?, ?, ?)
			ON CONFLICT(url) DO NOTHING
		`, e.URL, e.Title, e.Year, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReadEntries returns the stored entry list in its original order.
func (s *Store) ReadEntries(ctx context.Context) ([]postharvest.SitemapEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, title, year FROM entries ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []postharvest.SitemapEntry{}
	for rows.Next() {
		var e postharvest.SitemapEntry
		if err := rows.Scan(&e.URL, &e.Title, &e.Year); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// WriteSummary records the summary as a new run with a generated ID.
func (s *Store) WriteSummary(ctx context.Context, summary *postharvest.BatchSummary) error {
	errs := summary.Errors
	if errs == nil {
		errs = []postharvest.BatchError{}
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, total, successful, failed, errors, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), summary.Total, summary.Successful, summary.Failed, string(data),
		s.now().UTC().Format(time.RFC3339Nano))

	return err
}

// LatestRun returns the most recently recorded run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	var errs, finishedAt string
	summary := &postharvest.BatchSummary{}

	err := s.db.QueryRowContext(ctx, `
		SELECT id, total, successful, failed, errors, finished_at
		FROM runs ORDER BY rowid DESC LIMIT 1
	`).Scan(&run.ID, &summary.Total, &summary.Successful, &summary.Failed, &errs, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "no runs recorded")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(errs), &summary.Errors); err != nil {
		return nil, fmt.Errorf("failed to decode run errors: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, finishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}

	run.Summary = summary
	run.FinishedAt = t
	return &run, nil
}

// LatestSummary returns the summary of the most recently recorded run.
func (s *Store) LatestSummary(ctx context.Context) (*postharvest.BatchSummary, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	return run.Summary, nil
}
