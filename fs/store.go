// Package fs provides file-based storage for extracted posts and run
// reports.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/postharvest"
)

// File names written under the store directory.
const (
	PostsDir    = "posts"
	EntriesFile = "all_urls.json"
	SummaryFile = "scraping_summary.json"
)

// Ensure Store implements the storage interfaces at compile time.
var (
	_ postharvest.PostStore    = (*Store)(nil)
	_ postharvest.ReportWriter = (*Store)(nil)
	_ postharvest.Archive      = (*Store)(nil)
)

// Store writes posts as indented JSON files to <dir>/posts/<key>.json and
// run reports next to the posts directory. Files are written to a
// temporary name and renamed into place, so a crash never leaves a partial
// post that a later run would mistake for a finished one.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. Directories are created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// PostPath returns the file path for a post key.
func (s *Store) PostPath(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, PostsDir, key+".json"), nil
}

// Exists reports whether a post file is present for key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.PostPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Write stores post under key, replacing any previous file.
func (s *Store) Write(ctx context.Context, key string, post *postharvest.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	path, err := s.PostPath(key)
	if err != nil {
		return err
	}
	return writeJSON(path, post)
}

// ReadPost loads the post stored under key. Returns ENOTFOUND if absent.
func (s *Store) ReadPost(ctx context.Context, key string) (*postharvest.Post, error) {
	path, err := s.PostPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, postharvest.Errorf(postharvest.ENOTFOUND, "post %q not found", key)
	} else if err != nil {
		return nil, err
	}

	var post postharvest.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, postharvest.Errorf(postharvest.EINVALID, "decoding post %q: %v", key, err)
	}
	return &post, nil
}

// WriteEntries writes the discovered entries to all_urls.json.
func (s *Store) WriteEntries(ctx context.Context, entries []postharvest.SitemapEntry) error {
	if entries == nil {
		entries = []postharvest.SitemapEntry{}
	}
	return writeJSON(filepath.Join(s.dir, EntriesFile), entries)
}

// WriteSummary writes the run summary to scraping_summary.json.
func (s *Store) WriteSummary(ctx context.Context, summary *postharvest.BatchSummary) error {
	return writeJSON(filepath.Join(s.dir, SummaryFile), summary)
}

// PostKeys lists the keys of the post files in ascending order. Temporary
// files left by an interrupted write are ignored.
func (s *Store) PostKeys(ctx context.Context, limit, offset int) ([]string, error) {
	files, err := os.ReadDir(filepath.Join(s.dir, PostsDir))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	keys := []string{}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}

	if offset >= len(keys) {
		return []string{}, nil
	}
	keys = keys[offset:]
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}
	return keys, nil
}

// ReadEntries loads all_urls.json. A missing file yields no entries.
func (s *Store) ReadEntries(ctx context.Context) ([]postharvest.SitemapEntry, error) {
	entries := []postharvest.SitemapEntry{}
	if err := readJSON(filepath.Join(s.dir, EntriesFile), &entries); err != nil {
		if postharvest.ErrorCode(err) == postharvest.ENOTFOUND {
			return []postharvest.SitemapEntry{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// LatestSummary loads scraping_summary.json. Returns ENOTFOUND if no run
// has written one.
func (s *Store) LatestSummary(ctx context.Context) (*postharvest.BatchSummary, error) {
	var summary postharvest.BatchSummary
	if err := readJSON(filepath.Join(s.dir, SummaryFile), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// validateKey rejects keys that would escape the posts directory.
func validateKey(key string) error {
	switch {
	case key == "":
		return postharvest.Errorf(postharvest.EINVALID, "empty post key")
	case key == "." || key == "..":
		return postharvest.Errorf(postharvest.EINVALID, "invalid post key %q", key)
	case strings.ContainsAny(key, `/\`):
		return postharvest.Errorf(postharvest.EINVALID, "post key %q contains a path separator", key)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return postharvest.Errorf(postharvest.ENOTFOUND, "%s not found", filepath.Base(path))
	} else if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return postharvest.Errorf(postharvest.EINVALID, "decoding %s: %v", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
