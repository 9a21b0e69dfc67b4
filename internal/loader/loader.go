// Package loader reads notes files from disk into Documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/itsmostafa/notedex/internal/notes"
)

// DefaultExtensions lists the file extensions treated as notes files.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// Loader reads notes files. The zero value uses DefaultExtensions and
// GOMAXPROCS workers.
type Loader struct {
	// Extensions limits which files LoadDir picks up (case-insensitive)
	Extensions []string

	// Jobs is the maximum number of files read concurrently (0 = GOMAXPROCS)
	Jobs int
}

// New creates a Loader with default settings.
func New() *Loader {
	return &Loader{
		Extensions: DefaultExtensions,
		Jobs:       runtime.GOMAXPROCS(0),
	}
}

// LoadFile reads a single notes file. The returned Document carries the
// decoded body in Source and has no Sections yet.
func (l *Loader) LoadFile(path string) (*notes.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a notes file", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := decodeText(path, raw)
	if err != nil {
		return nil, err
	}

	meta, body, bodyLine := splitFrontMatter(text)

	title := meta.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &notes.Document{
		Title:    title,
		Path:     path,
		Meta:     meta,
		Source:   body,
		BodyLine: bodyLine,
	}, nil
}

// Load reads every path and returns one Document per path, in input order.
// The first failure aborts the load and no Documents are returned.
func (l *Loader) Load(ctx context.Context, paths []string) ([]*notes.Document, error) {
	docs := make([]*notes.Document, len(paths))
	if len(paths) == 0 {
		return docs, nil
	}

	jobs := l.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			doc, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc

			log.Debug().Str("path", path).Int("bytes", len(doc.Source)).Msg("loaded document")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// LoadDir loads every notes file under dir. Files are ordered by path so the
// result does not depend on directory listing order.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*notes.Document, error) {
	paths, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, paths)
}

// Discover lists the notes files under dir, skipping hidden directories.
func (l *Loader) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: dir, Err: err}
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if l.IsNotesFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// IsNotesFile reports whether name has one of the loader's extensions.
func (l *Loader) IsNotesFile(name string) bool {
	exts := l.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
