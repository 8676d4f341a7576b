// Package catalog remembers every level saved on this machine in a small
// SQLite database, newest first.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jsphweid/ssedit/level"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

var ErrOpen = errors.New("could not open catalog")

const schema = `
CREATE TABLE IF NOT EXISTS levels (
	path        TEXT PRIMARY KEY,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL,
	author      TEXT NOT NULL,
	format      TEXT NOT NULL,
	difficulty  TEXT NOT NULL,
	notes       INTEGER NOT NULL,
	length_ms   INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	saved_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS levels_saved_at ON levels (saved_at DESC);
`

type Entry struct {
	Path        string    `json:"path"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Format      string    `json:"format"`
	Difficulty  string    `json:"difficulty"`
	Notes       int       `json:"notes"`
	LengthMs    int       `json:"length_ms"`
	Fingerprint string    `json:"fingerprint"`
	SavedAt     time.Time `json:"saved_at"`
}

// EntryFor describes l as saved at path.
func EntryFor(path string, l *level.Level, at time.Time) Entry {
	return Entry{
		Path:        path,
		ID:          l.ID,
		Name:        l.Name,
		Author:      l.Author,
		Format:      l.Format.String(),
		Difficulty:  l.Difficulty.String(),
		Notes:       l.Notes.Count(),
		LengthMs:    l.Length(),
		Fingerprint: l.Fingerprint().String(),
		SavedAt:     at,
	}
}

type Catalog struct {
	db *sql.DB
}

// Open creates the database at path if needed. ":memory:" works for tests.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	// one connection, so an in-memory database is shared by every query
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record inserts e, replacing any earlier entry for the same path.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO levels (path, id, name, author, format, difficulty, notes, length_ms, fingerprint, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			id = excluded.id, name = excluded.name, author = excluded.author,
			format = excluded.format, difficulty = excluded.difficulty,
			notes = excluded.notes, length_ms = excluded.length_ms,
			fingerprint = excluded.fingerprint, saved_at = excluded.saved_at`,
		e.Path, e.ID, e.Name, e.Author, e.Format, e.Difficulty, e.Notes, e.LengthMs, e.Fingerprint, e.SavedAt.UnixNano())
	return err
}

// Recent lists up to limit entries, most recently saved first.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, id, name, author, format, difficulty, notes, length_ms, fingerprint, saved_at
		FROM levels ORDER BY saved_at DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Entry
	for rows.Next() {
		var e Entry
		var savedAt int64
		if err := rows.Scan(&e.Path, &e.ID, &e.Name, &e.Author, &e.Format, &e.Difficulty,
			&e.Notes, &e.LengthMs, &e.Fingerprint, &savedAt); err != nil {
			return nil, err
		}
		e.SavedAt = time.Unix(0, savedAt)
		res = append(res, e)
	}
	return res, rows.Err()
}

// Forget drops the entry for path, reporting whether there was one.
func (c *Catalog) Forget(ctx context.Context, path string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM levels WHERE path = ?`, path)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
