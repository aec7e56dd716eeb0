// Package parser converts raw Markdown text (optionally with frontmatter)
// into a structured document tree plus derived metadata and summary stats.
//
// The converter is total on its input domain: every string, including the
// empty one, produces a result. It is a pure, synchronous computation with no
// shared state, so a single Converter is safe for concurrent use.
package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/dagaz/internal/models"
)

// Converter turns Markdown into structured documents. The zero value is not
// usable; construct with New.
type Converter struct {
	now func() time.Time
}

// Option is a functional option for configuring a Converter.
type Option func(*Converter)

// WithClock overrides the clock used for processing stats and for default
// created/modified timestamps when frontmatter omits them. Tests use this to
// pin time and assert exact output.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// New creates a Converter with the given options.
func New(opts ...Option) *Converter {
	c := &Converter{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the complete output of one conversion.
type Result struct {
	Document models.Document `json:"document"`
	Stats    models.Stats    `json:"stats"`
	Metadata models.Metadata `json:"metadata"`
}

// Convert runs the full pipeline: frontmatter extraction, block parsing,
// metadata aggregation, and assembly with summary stats.
func (c *Converter) Convert(text string) *Result {
	start := time.Now()

	fm, body := ExtractFrontmatter(text)
	doc := models.Document{Blocks: ParseBlocks(body)}
	meta := buildMetadata(fm, body, c.now())

	serialized, _ := json.Marshal(doc)
	stats := models.Stats{
		Elements:    len(doc.Blocks),
		JSONSize:    fmt.Sprintf("%.1f KB", float64(len(serialized))/1024),
		ProcessTime: fmt.Sprintf("%.3fs", time.Since(start).Seconds()),
	}

	return &Result{Document: doc, Stats: stats, Metadata: meta}
}

// Convert converts text with a default wall-clock Converter.
func Convert(text string) *Result {
	return New().Convert(text)
}
