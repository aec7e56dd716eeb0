// Package models defines the domain types for Dagaz.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Document is the root of a converted Markdown document. It holds the ordered
// top-level blocks and is immutable once assembled.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Block is a top-level structural unit of a document. The closed set of
// implementations is Heading, Paragraph, CodeBlock, Blockquote,
// HorizontalRule, and List. Each variant serializes with a "type"
// discriminator so stored documents can be rendered without the Go types.
type Block interface {
	blockNode()
}

// Heading is an ATX heading with level 1..6.
type Heading struct {
	Level int
	Text  string
}

func (Heading) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (b Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Level int    `json:"level"`
		Text  string `json:"text"`
	}{"heading", b.Level, b.Text})
}

// Paragraph holds either plain text (when inline parsing produced a single
// text span) or an ordered span sequence. Exactly one of Text/Spans is set.
type Paragraph struct {
	Text  string
	Spans []Span
}

func (Paragraph) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (b Paragraph) MarshalJSON() ([]byte, error) {
	if b.Spans == nil {
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{"paragraph", b.Text})
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Spans []Span `json:"spans"`
	}{"paragraph", b.Spans})
}

// CodeBlock is a fenced code block. Code holds the interior lines verbatim,
// newline-joined. Language defaults to "text" when the fence carries no tag.
type CodeBlock struct {
	Language string
	Code     string
}

func (CodeBlock) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (b CodeBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Language string `json:"language"`
		Code     string `json:"code"`
	}{"code", b.Language, b.Code})
}

// Blockquote is a single-line quote with the leading marker stripped.
// Consecutive quote lines are separate Blockquote blocks.
type Blockquote struct {
	Text string
}

func (Blockquote) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (b Blockquote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{"blockquote", b.Text})
}

// HorizontalRule is a thematic break. It carries no payload.
type HorizontalRule struct{}

func (HorizontalRule) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (HorizontalRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{"hr"})
}

// List is an ordered or unordered list. A run of items never mixes the two
// families; the individual unordered marker symbol is not preserved.
type List struct {
	Ordered bool
	Items   []ListItem
}

func (List) blockNode() {}

// MarshalJSON implements json.Marshaler.
func (b List) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Ordered bool       `json:"ordered"`
		Items   []ListItem `json:"items"`
	}{"list", b.Ordered, b.Items})
}

// ListItem wraps either plain item text or a span sequence, mirroring
// Paragraph. Exactly one of Text/Spans is set.
type ListItem struct {
	Text  string
	Spans []Span
}

// MarshalJSON implements json.Marshaler.
func (it ListItem) MarshalJSON() ([]byte, error) {
	if it.Spans == nil {
		return json.Marshal(struct {
			Text string `json:"text"`
		}{it.Text})
	}
	return json.Marshal(struct {
		Spans []Span `json:"spans"`
	}{it.Spans})
}

// Span is an inline-level fragment of a line. The closed set of
// implementations is TextSpan, BoldSpan, ItalicSpan, CodeSpan, LinkSpan, and
// WikilinkSpan. Spans are non-overlapping and ordered by source position.
type Span interface {
	spanNode()
}

// TextSpan is plain text, including any gap between recognized constructs.
type TextSpan struct {
	Content string
}

func (TextSpan) spanNode() {}

// MarshalJSON implements json.Marshaler.
func (s TextSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{"text", s.Content})
}

// BoldSpan is **strong** text.
type BoldSpan struct {
	Content string
}

func (BoldSpan) spanNode() {}

// MarshalJSON implements json.Marshaler.
func (s BoldSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{"bold", s.Content})
}

// ItalicSpan is *emphasized* text.
type ItalicSpan struct {
	Content string
}

func (ItalicSpan) spanNode() {}

// MarshalJSON implements json.Marshaler.
func (s ItalicSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{"italic", s.Content})
}

// CodeSpan is `inline code`.
type CodeSpan struct {
	Content string
}

func (CodeSpan) spanNode() {}

// MarshalJSON implements json.Marshaler.
func (s CodeSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{"code", s.Content})
}

// LinkSpan is a [text](url) link. URL classification (external vs relative)
// happens during metadata aggregation, not here.
type LinkSpan struct {
	Text string
	URL  string
}

func (LinkSpan) spanNode() {}

// External reports whether the link target is an http(s) URL.
func (s LinkSpan) External() bool {
	return strings.HasPrefix(s.URL, "http://") || strings.HasPrefix(s.URL, "https://")
}

// MarshalJSON implements json.Marshaler.
func (s LinkSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
		URL  string `json:"url"`
	}{"link", s.Text, s.URL})
}

// WikilinkSpan is a [[Target]] internal reference. Target has any alias or
// #section suffix already stripped; Text is the display form.
type WikilinkSpan struct {
	Text   string
	Target string
}

func (WikilinkSpan) spanNode() {}

// MarshalJSON implements json.Marshaler.
func (s WikilinkSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Text   string `json:"text"`
		Target string `json:"target"`
	}{"wikilink", s.Text, s.Target})
}

// Metadata is the derived metadata record for one conversion. Tag and link
// slices preserve first-seen order and contain no duplicates.
type Metadata struct {
	Title         string
	Tags          []string
	Wikilinks     []string
	ExternalLinks []string
	Aliases       []string
	WordCount     int
	ReadingTime   int // minutes, always >= 1
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Extra         map[string]any // passthrough frontmatter keys
}

// MarshalJSON implements json.Marshaler. Timestamps serialize as ISO-8601
// with millisecond precision in UTC, e.g. "2024-01-01T00:00:00.000Z".
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title         string         `json:"title,omitempty"`
		Tags          []string       `json:"tags"`
		Wikilinks     []string       `json:"wikilinks"`
		ExternalLinks []string       `json:"external_links"`
		Aliases       []string       `json:"aliases,omitempty"`
		WordCount     int            `json:"word_count"`
		ReadingTime   int            `json:"reading_time"`
		CreatedAt     string         `json:"created_at"`
		UpdatedAt     string         `json:"updated_at"`
		Extra         map[string]any `json:"extra,omitempty"`
	}{
		Title:         m.Title,
		Tags:          nonNil(m.Tags),
		Wikilinks:     nonNil(m.Wikilinks),
		ExternalLinks: nonNil(m.ExternalLinks),
		Aliases:       m.Aliases,
		WordCount:     m.WordCount,
		ReadingTime:   m.ReadingTime,
		CreatedAt:     ISOTimestamp(m.CreatedAt),
		UpdatedAt:     ISOTimestamp(m.UpdatedAt),
		Extra:         m.Extra,
	})
}

// ISOTimestamp renders t as ISO-8601 with millisecond precision in UTC.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}

// Stats summarizes one conversion. JSONSize and ProcessTime are display
// strings, not format contracts.
type Stats struct {
	Elements    int    `json:"elements"`
	JSONSize    string `json:"jsonSize"`
	ProcessTime string `json:"processTime"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
