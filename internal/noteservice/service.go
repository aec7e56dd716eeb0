// Package noteservice coordinates the Markdown converter and the persistence
// layer: conversions, note CRUD with optimistic concurrency, and backlinks.
package noteservice

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/parser"
	"github.com/starford/dagaz/internal/store"
)

// EventFunc receives a change notification after a successful mutation.
// kind is one of "conversion.completed", "note.created", "note.updated",
// "note.deleted".
type EventFunc func(kind string, id int64)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Markdown    string              `json:"markdown"`
	Document    json.RawMessage     `json:"document"`
	Tags        []string            `json:"tags"`
	Wikilinks   []string            `json:"wikilinks"`
	WordCount   int                 `json:"word_count"`
	ReadingTime int                 `json:"reading_time"`
	Checksum    string              `json:"checksum"`
	Backlinks   []store.BacklinkRef `json:"backlinks"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	WordCount   int       `json:"word_count"`
	ReadingTime int       `json:"reading_time"`
	Checksum    string    `json:"checksum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConversionDetail is the response payload for one conversion.
type ConversionDetail struct {
	ID       int64           `json:"id"`
	Document models.Document `json:"document"`
	Stats    models.Stats    `json:"stats"`
	Metadata models.Metadata `json:"metadata"`
}

// Service coordinates converter and store operations.
type Service struct {
	db     store.NoteStore
	conv   *parser.Converter
	notify EventFunc
}

// Option is a functional option for configuring the service.
type Option func(*Service)

// WithNotifier sets a callback invoked after successful mutations.
func WithNotifier(fn EventFunc) Option {
	return func(s *Service) {
		s.notify = fn
	}
}

// NewService creates a new note service around the given store and converter.
func NewService(db store.NoteStore, conv *parser.Converter, opts ...Option) *Service {
	s := &Service{db: db, conv: conv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert runs the converter on raw markdown and records the conversion.
func (s *Service) Convert(_ context.Context, markdown string) (*ConversionDetail, error) {
	res := s.conv.Convert(markdown)

	output, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	id, err := s.db.InsertConversion(models.Conversion{
		Input:     markdown,
		Output:    output,
		Elements:  res.Stats.Elements,
		WordCount: res.Metadata.WordCount,
		CreatedAt: res.Metadata.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	s.publish("conversion.completed", id)

	return &ConversionDetail{
		ID:       id,
		Document: res.Document,
		Stats:    res.Stats,
		Metadata: res.Metadata,
	}, nil
}

// GetConversion returns a stored conversion record.
func (s *Service) GetConversion(_ context.Context, id int64) (*models.Conversion, error) {
	return s.db.GetConversion(id)
}

// CreateNote converts markdown and persists it as a new note. title may be
// empty, in which case it is derived from frontmatter, the first H1, or
// "Untitled".
func (s *Service) CreateNote(_ context.Context, title, markdown string) (*NoteDetail, error) {
	row := s.buildRow(title, markdown, "")
	id, err := s.db.CreateNote(row)
	if err != nil {
		return nil, err
	}
	s.publish("note.created", id)
	return s.detail(id)
}

// GetNote returns a note enriched with its backlinks.
func (s *Service) GetNote(_ context.Context, id int64) (*NoteDetail, error) {
	return s.detail(id)
}

// UpdateNote re-converts and replaces a note's content. A non-empty ifMatch
// must equal the stored markdown checksum (optimistic concurrency), otherwise
// apperr.ErrConflict is returned.
func (s *Service) UpdateNote(_ context.Context, id int64, title, markdown, ifMatch string) (*NoteDetail, error) {
	existing, err := s.db.GetNote(id)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != existing.Checksum {
		return nil, apperr.ErrConflict
	}

	row := s.buildRow(title, markdown, existing.SourcePath)
	row.ID = id
	row.CreatedAt = existing.CreatedAt
	if err := s.db.UpdateNote(row); err != nil {
		return nil, err
	}
	s.publish("note.updated", id)
	return s.detail(id)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(_ context.Context, id int64) error {
	if err := s.db.DeleteNote(id); err != nil {
		return err
	}
	s.publish("note.deleted", id)
	return nil
}

// ListNotes returns paginated notes with optional tag filter.
func (s *Service) ListNotes(_ context.Context, limit, offset int, tag, sort string) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			ID:          r.ID,
			Title:       r.Title,
			Tags:        splitJoined(r.Tags),
			WordCount:   r.WordCount,
			ReadingTime: r.ReadingTime,
			Checksum:    r.Checksum,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Backlinks returns all notes whose wikilinks reference the note's title.
func (s *Service) Backlinks(_ context.Context, id int64) ([]store.BacklinkRef, error) {
	refs, err := s.db.Backlinks(id)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []store.BacklinkRef{}
	}
	return refs, nil
}

// Search delegates full-text search to the store.
func (s *Service) Search(_ context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ImportFile converts a watched markdown file and upserts it as a note keyed
// by its source path. The filename stem is the title of last resort.
func (s *Service) ImportFile(path string, data []byte) (int64, error) {
	row := s.buildRow("", string(data), path)
	if row.Title == "Untitled" {
		row.Title = titleFromPath(path)
	}

	created := false
	if _, err := s.db.GetNoteBySourcePath(path); err != nil {
		created = true
	}
	id, err := s.db.UpsertBySourcePath(row)
	if err != nil {
		return 0, err
	}
	if created {
		s.publish("note.created", id)
	} else {
		s.publish("note.updated", id)
	}
	return id, nil
}

// ImportedChecksums maps source path to stored markdown checksum for every
// note that was imported from the watch directory.
func (s *Service) ImportedChecksums() (map[string]string, error) {
	return s.db.SourceChecksums()
}

// RemoveImported deletes the note imported from path, if any.
func (s *Service) RemoveImported(path string) error {
	n, err := s.db.GetNoteBySourcePath(path)
	if err != nil {
		return nil // never imported; nothing to do
	}
	if err := s.db.DeleteNote(n.ID); err != nil {
		return err
	}
	s.publish("note.deleted", n.ID)
	return nil
}

// buildRow converts markdown and assembles a persistable note row.
func (s *Service) buildRow(title, markdown, sourcePath string) models.Note {
	res := s.conv.Convert(markdown)
	document, _ := json.Marshal(res.Document)

	return models.Note{
		Title:       deriveTitle(title, res),
		Markdown:    markdown,
		Document:    document,
		Tags:        strings.Join(res.Metadata.Tags, ","),
		Wikilinks:   strings.Join(res.Metadata.Wikilinks, ","),
		WordCount:   res.Metadata.WordCount,
		ReadingTime: res.Metadata.ReadingTime,
		Checksum:    checksum.Sum([]byte(markdown)),
		SourcePath:  sourcePath,
		CreatedAt:   res.Metadata.CreatedAt,
		UpdatedAt:   res.Metadata.UpdatedAt,
	}
}

func (s *Service) detail(id int64) (*NoteDetail, error) {
	n, err := s.db.GetNote(id)
	if err != nil {
		return nil, err
	}
	refs, err := s.db.Backlinks(id)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []store.BacklinkRef{}
	}
	return &NoteDetail{
		ID:          n.ID,
		Title:       n.Title,
		Markdown:    n.Markdown,
		Document:    n.Document,
		Tags:        splitJoined(n.Tags),
		Wikilinks:   splitJoined(n.Wikilinks),
		WordCount:   n.WordCount,
		ReadingTime: n.ReadingTime,
		Checksum:    n.Checksum,
		Backlinks:   refs,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}, nil
}

func (s *Service) publish(kind string, id int64) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}

// deriveTitle picks the explicit title, then frontmatter title, then the
// first level-1 heading, then "Untitled".
func deriveTitle(explicit string, res *parser.Result) string {
	if explicit != "" {
		return explicit
	}
	if res.Metadata.Title != "" {
		return res.Metadata.Title
	}
	for _, b := range res.Document.Blocks {
		if h, ok := b.(models.Heading); ok && h.Level == 1 {
			return h.Text
		}
	}
	return "Untitled"
}

// titleFromPath derives a human-readable title from a file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Untitled"
}

// splitJoined splits a comma-joined column back into a slice, never nil.
func splitJoined(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
