package store

import "github.com/starford/dagaz/internal/models"

// NoteStore defines the persistence operations the service layers depend on.
// Consumers should use this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type NoteStore interface {
	CreateNote(n models.Note) (int64, error)
	GetNote(id int64) (*models.Note, error)
	GetNoteBySourcePath(path string) (*models.Note, error)
	UpdateNote(n models.Note) error
	UpsertBySourcePath(n models.Note) (int64, error)
	DeleteNote(id int64) error
	ListNotes(limit, offset int, tag, sort string) ([]models.Note, int, error)
	Backlinks(id int64) ([]BacklinkRef, error)
	SourceChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	InsertConversion(c models.Conversion) (int64, error)
	GetConversion(id int64) (*models.Conversion, error)
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
