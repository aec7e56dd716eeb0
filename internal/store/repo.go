package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// BacklinkRef identifies a note whose stored wikilinks reference another
// note's title.
type BacklinkRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

const noteColumns = `id, title, markdown, document, tags, wikilinks, word_count, reading_time, checksum, COALESCE(source_path, ''), created_at, updated_at`

// CreateNote inserts a note and returns its assigned id.
func (db *DB) CreateNote(n models.Note) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO notes (title, markdown, document, tags, wikilinks, word_count, reading_time, checksum, source_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.Title, n.Markdown, string(n.Document), n.Tags, n.Wikilinks, n.WordCount, n.ReadingTime, n.Checksum,
		nullable(n.SourcePath), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("store: insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: note id: %w", err)
	}
	if err := ftsUpsert(db.conn, id, n.Title, n.Markdown, n.Tags); err != nil {
		return 0, err
	}
	return id, nil
}

// GetNote returns a note by id, or apperr.ErrNotFound.
func (db *DB) GetNote(id int64) (*models.Note, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// GetNoteBySourcePath returns the note imported from path, or
// apperr.ErrNotFound.
func (db *DB) GetNoteBySourcePath(path string) (*models.Note, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE source_path = ?`, path)
	return scanNote(row)
}

// UpdateNote replaces the stored content of the note identified by n.ID.
func (db *DB) UpdateNote(n models.Note) error {
	res, err := db.conn.Exec(`
		UPDATE notes
		SET title = ?, markdown = ?, document = ?, tags = ?, wikilinks = ?,
		    word_count = ?, reading_time = ?, checksum = ?, updated_at = ?
		WHERE id = ?
	`, n.Title, n.Markdown, string(n.Document), n.Tags, n.Wikilinks,
		n.WordCount, n.ReadingTime, n.Checksum, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return ftsUpsert(db.conn, n.ID, n.Title, n.Markdown, n.Tags)
}

// UpsertBySourcePath inserts or updates the note keyed by n.SourcePath and
// returns its id. Used by the import watcher.
func (db *DB) UpsertBySourcePath(n models.Note) (int64, error) {
	existing, err := db.GetNoteBySourcePath(n.SourcePath)
	if errors.Is(err, apperr.ErrNotFound) {
		return db.CreateNote(n)
	}
	if err != nil {
		return 0, err
	}
	n.ID = existing.ID
	n.CreatedAt = existing.CreatedAt
	if err := db.UpdateNote(n); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// DeleteNote removes a note and its FTS entry.
func (db *DB) DeleteNote(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperr.ErrNotFound
	}
	ftsDelete(db.conn, id)
	return nil
}

// sortColumns whitelists ListNotes sort keys.
var sortColumns = map[string]string{
	"updated_at": "updated_at DESC",
	"created_at": "created_at DESC",
	"title":      "title COLLATE NOCASE ASC",
	"word_count": "word_count DESC",
}

// ListNotes returns paginated notes with an optional tag filter. The tags
// column is comma-joined, so the filter is a substring match like the rest of
// the tag plumbing.
func (db *DB) ListNotes(limit, offset int, tag, sort string) ([]models.Note, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order, ok := sortColumns[sort]
	if !ok {
		order = sortColumns["updated_at"]
	}

	where := ""
	args := []any{}
	if tag != "" {
		where = `WHERE tags LIKE ?`
		args = append(args, "%"+tag+"%")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count notes: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`SELECT `+noteColumns+` FROM notes `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}
	return out, total, rows.Err()
}

// Backlinks returns the notes whose stored wikilinks string contains the
// title of the note identified by id. This is a deliberate substring match
// against the comma-joined wikilinks column, not an exact-target join.
func (db *DB) Backlinks(id int64) ([]BacklinkRef, error) {
	n, err := db.GetNote(id)
	if err != nil {
		return nil, err
	}
	if n.Title == "" {
		return nil, nil
	}

	rows, err := db.conn.Query(`
		SELECT id, title FROM notes
		WHERE id != ? AND wikilinks LIKE ?
		ORDER BY id
	`, id, "%"+n.Title+"%")
	if err != nil {
		return nil, fmt.Errorf("store: backlinks: %w", err)
	}
	defer rows.Close()

	var out []BacklinkRef
	for rows.Next() {
		var ref BacklinkRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// SourceChecksums returns checksum by source path for every imported note.
func (db *DB) SourceChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source_path, checksum FROM notes WHERE source_path IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("store: source checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, cs string
		if err := rows.Scan(&path, &cs); err != nil {
			return nil, err
		}
		out[path] = cs
	}
	return out, rows.Err()
}

// InsertConversion records one conversion and returns its id.
func (db *DB) InsertConversion(c models.Conversion) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO conversions (input, output, elements, word_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.Input, string(c.Output), c.Elements, c.WordCount, c.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("store: insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: conversion id: %w", err)
	}
	return id, nil
}

// GetConversion returns a stored conversion by id, or apperr.ErrNotFound.
func (db *DB) GetConversion(id int64) (*models.Conversion, error) {
	var c models.Conversion
	var output string
	err := db.conn.QueryRow(`
		SELECT id, input, output, elements, word_count, created_at
		FROM conversions WHERE id = ?
	`, id).Scan(&c.ID, &c.Input, &output, &c.Elements, &c.WordCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get conversion: %w", err)
	}
	c.Output = []byte(output)
	return &c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	var document string
	err := row.Scan(&n.ID, &n.Title, &n.Markdown, &document, &n.Tags, &n.Wikilinks,
		&n.WordCount, &n.ReadingTime, &n.Checksum, &n.SourcePath, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan note: %w", err)
	}
	n.Document = []byte(document)
	return &n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
