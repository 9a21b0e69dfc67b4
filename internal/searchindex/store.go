// Package searchindex stores indexed notes in a SQLite full-text index.
package searchindex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/itsmostafa/notedex/internal/notes"
)

// Store is a SQLite database holding one row per document and an FTS5 row
// per section.
type Store struct {
	db *sql.DB
}

// Hit is one search result.
type Hit struct {
	Document string  `json:"document"`
	Path     string  `json:"path"`
	ID       string  `json:"id"`
	Anchor   string  `json:"anchor"`
	Title    string  `json:"title"`
	Level    int     `json:"level"`
	Snippet  string  `json:"snippet"`
	Rank     float64 `json:"rank"`
}

// Open opens or creates the index at path. The parent directory is created
// if it doesn't exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate index: %w", err)
	}

	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		path TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		sections INTEGER NOT NULL,
		words INTEGER NOT NULL
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS sections USING fts5(
		doc_id UNINDEXED,
		section_id UNINDEXED,
		anchor UNINDEXED,
		level UNINDEXED,
		position UNINDEXED,
		title,
		body,
		tokenize = 'unicode61 remove_diacritics 2'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Write replaces the index contents with docs in a single transaction.
func (s *Store) Write(ctx context.Context, docs []*notes.Document, baseDir string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return fmt.Errorf("clear sections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, title, path, author, tags, sections, words)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare document insert: %w", err)
	}
	defer docStmt.Close()

	secStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (doc_id, section_id, anchor, level, position, title, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare section insert: %w", err)
	}
	defer secStmt.Close()

	for i, doc := range docs {
		docID := i + 1
		counts := doc.Counts()
		if _, err := docStmt.ExecContext(ctx, docID, doc.Title, relPath(doc.Path, baseDir),
			doc.Meta.Author, strings.Join(doc.Meta.Tags, ","), counts.Sections, counts.Words); err != nil {
			return fmt.Errorf("insert document %s: %w", doc.Path, err)
		}

		for pos, sec := range notes.Flatten(doc.Sections) {
			title := sec.Title
			if sec.IsPreamble() {
				title = doc.Title
			}
			if _, err := secStmt.ExecContext(ctx, docID, sec.ID, sec.Anchor, sec.Level, pos,
				title, sectionBody(sec)); err != nil {
				return fmt.Errorf("insert section %s/%s: %w", doc.Path, sec.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}

	log.Debug().Int("documents", len(docs)).Msg("search index written")
	return nil
}

// Search runs a full-text query and returns up to limit hits, best first.
// Each whitespace-separated term must match (implicit AND); terms are
// quoted so FTS5 operators in user input are treated as text.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.title, d.path, sections.section_id, sections.anchor, sections.title, sections.level,
		       snippet(sections, -1, '[', ']', '…', 12), bm25(sections) AS score
		FROM sections
		JOIN documents d ON d.id = sections.doc_id
		WHERE sections MATCH ?
		ORDER BY score, d.id, sections.position
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Document, &h.Path, &h.ID, &h.Anchor, &h.Title, &h.Level, &h.Snippet, &h.Rank); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsQuery quotes each term of a user query for FTS5.
func ftsQuery(query string) string {
	var terms []string
	for _, term := range strings.Fields(query) {
		terms = append(terms, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func sectionBody(s *notes.Section) string {
	parts := make([]string, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

func relPath(path, base string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
