// Package pipeline wires the loader, indexer and renderers into a single
// build step.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/itsmostafa/notedex/internal/indexer"
	"github.com/itsmostafa/notedex/internal/loader"
	"github.com/itsmostafa/notedex/internal/notes"
	"github.com/itsmostafa/notedex/internal/render"
	"github.com/itsmostafa/notedex/internal/searchindex"
)

// FormatSQLite writes a search index database instead of a streamed file.
const FormatSQLite = "sqlite"

// Options configures a build.
type Options struct {
	InputDir   string
	OutputFile string
	Format     string
	Extensions []string
	Jobs       int
	Render     render.Options
}

// Result summarizes a finished build.
type Result struct {
	Documents int
	Counts    notes.Counts
	Output    string
	Format    string
	Duration  time.Duration
}

// Index loads every notes file under dir and parses its sections.
func Index(ctx context.Context, dir string, extensions []string, jobs int) ([]*notes.Document, error) {
	l := loader.New()
	if len(extensions) > 0 {
		l.Extensions = extensions
	}
	if jobs > 0 {
		l.Jobs = jobs
	}

	docs, err := l.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	indexed := make([]*notes.Document, len(docs))
	for i, doc := range docs {
		indexed[i] = indexer.Index(doc)
	}
	return indexed, nil
}

// Build runs Loader → Indexer → Renderer and writes the output file.
// The output is written to a temporary file first and renamed into place,
// so a failed build never leaves a truncated output behind.
func Build(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	opts.Format = strings.ToLower(opts.Format)
	if opts.Format == "" {
		opts.Format = "html"
	}

	docs, err := Index(ctx, opts.InputDir, opts.Extensions, opts.Jobs)
	if err != nil {
		return nil, err
	}

	renderOpts := opts.Render
	if renderOpts.BaseDir == "" {
		renderOpts.BaseDir = opts.InputDir
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if opts.Format == FormatSQLite {
		err = writeSQLite(ctx, opts.OutputFile, docs, renderOpts.BaseDir)
	} else {
		err = writeRendered(opts.Format, renderOpts, opts.OutputFile, docs)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Documents: len(docs),
		Output:    opts.OutputFile,
		Format:    opts.Format,
		Duration:  time.Since(start),
	}
	for _, doc := range docs {
		result.Counts = result.Counts.Add(doc.Counts())
	}

	log.Info().
		Int("documents", result.Documents).
		Int("sections", result.Counts.Sections).
		Int("tokens", result.Counts.Tokens).
		Str("format", result.Format).
		Str("output", result.Output).
		Dur("duration", result.Duration).
		Msg("build complete")

	return result, nil
}

func writeRendered(format string, opts render.Options, path string, docs []*notes.Document) error {
	r, err := render.ByName(format, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, docs); err != nil {
		return err
	}

	return writeAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, buf.Bytes(), 0644)
	})
}

func writeSQLite(ctx context.Context, path string, docs []*notes.Document, baseDir string) error {
	return writeAtomic(path, func(tmp string) error {
		store, err := searchindex.Open(tmp)
		if err != nil {
			return err
		}
		if err := store.Write(ctx, docs, baseDir); err != nil {
			store.Close()
			return err
		}
		return store.Close()
	})
}

// writeAtomic calls write with a temporary path next to path and renames the
// result over path on success.
func writeAtomic(path string, write func(tmp string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
