package models

import (
	"encoding/json"
	"time"
)

// Note is a persisted note: the raw Markdown a user saved plus the converter
// output derived from it. Tags and Wikilinks are stored comma-joined, which is
// what the backlink lookup substring-matches against.
type Note struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Markdown    string          `json:"markdown"`
	Document    json.RawMessage `json:"document,omitempty"`
	Tags        string          `json:"tags"`
	Wikilinks   string          `json:"wikilinks"`
	WordCount   int             `json:"word_count"`
	ReadingTime int             `json:"reading_time"`
	Checksum    string          `json:"checksum"`
	SourcePath  string          `json:"source_path,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Conversion is a stored conversion record: the raw input and the serialized
// converter output, kept so the UI can replay and download past results.
type Conversion struct {
	ID        int64           `json:"id"`
	Input     string          `json:"input"`
	Output    json.RawMessage `json:"output"`
	Elements  int             `json:"elements"`
	WordCount int             `json:"word_count"`
	CreatedAt time.Time       `json:"created_at"`
}
