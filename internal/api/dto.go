package api

import (
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteservice"
	"github.com/starford/dagaz/internal/store"
)

// ConvertRequest is the request body for converting raw markdown.
type ConvertRequest struct {
	Markdown string `json:"markdown" example:"# Hello\nWorld" validate:"required"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title    string `json:"title" example:"Hello"`
	Markdown string `json:"markdown" example:"# Hello\nWorld" validate:"required"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Title    string `json:"title" example:"Updated"`
	Markdown string `json:"markdown" example:"# Updated\nContent" validate:"required"`
}

// ConversionDetail is the converter output payload (aliased from the domain layer).
type ConversionDetail = noteservice.ConversionDetail

// ConversionRecord is a stored conversion (aliased from the domain layer).
type ConversionRecord = models.Conversion

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// BacklinksResponse wraps a backlink lookup.
type BacklinksResponse struct {
	Backlinks []store.BacklinkRef `json:"backlinks" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []store.SearchResult `json:"results" validate:"required"`
}
