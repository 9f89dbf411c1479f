// CLAUDE:SUMMARY Classification history — SQLite-backed log of analyzed documents and their top category.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prahastiwi/sdgdoc/dbopen"
	"github.com/prahastiwi/sdgdoc/engine"
)

// Schema creates the history table. Pass it to dbopen.Open via WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS classification_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	filename    TEXT NOT NULL,
	file_kind   TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	identifier  TEXT NOT NULL DEFAULT '',
	top_label   TEXT NOT NULL DEFAULT '',
	confidence  INTEGER NOT NULL DEFAULT 0,
	matches     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON classification_history (created_at DESC);
`

// Entry is one recorded classification.
type Entry struct {
	ID         int64          `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Filename   string         `json:"filename"`
	FileKind   string         `json:"file_kind"`
	Title      string         `json:"title"`
	Identifier string         `json:"identifier"`
	TopLabel   string         `json:"top_label"`
	Confidence int            `json:"confidence"`
	Matches    []engine.Match `json:"matches"`
}

// Store persists classification history. Callers own the *sql.DB lifecycle.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts one entry. The top match, when present, denormalizes into
// dedicated columns so listings do not need to unmarshal the match blob.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if len(e.Matches) > 0 {
		e.TopLabel = e.Matches[0].Label
		e.Confidence = e.Matches[0].Confidence
	}
	blob, err := json.Marshal(e.Matches)
	if err != nil {
		return fmt.Errorf("history: marshal matches: %w", err)
	}
	res, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO classification_history
			(created_at, filename, file_kind, title, identifier, top_label, confidence, matches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt.Format(time.RFC3339), e.Filename, e.FileKind,
		e.Title, e.Identifier, e.TopLabel, e.Confidence, string(blob))
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// Recent returns the newest entries, capped at limit (default 50).
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, filename, file_kind, title, identifier, top_label, confidence, matches
		FROM classification_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created, blob string
		if err := rows.Scan(&e.ID, &created, &e.Filename, &e.FileKind,
			&e.Title, &e.Identifier, &e.TopLabel, &e.Confidence, &blob); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("history: parse created_at %q: %w", created, err)
		}
		if err := json.Unmarshal([]byte(blob), &e.Matches); err != nil {
			return nil, fmt.Errorf("history: unmarshal matches: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classification_history`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}
