package parser

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/models"
)

func fixedConverter() *Converter {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestConvert_SingleHeading(t *testing.T) {
	res := fixedConverter().Convert("# Title")
	if len(res.Document.Blocks) != 1 {
		t.Fatalf("blocks = %#v, want exactly one", res.Document.Blocks)
	}
	h, ok := res.Document.Blocks[0].(models.Heading)
	if !ok || h.Level != 1 || h.Text != "Title" {
		t.Errorf("block = %#v, want Heading level 1 %q", res.Document.Blocks[0], "Title")
	}
}

func TestConvert_Idempotent(t *testing.T) {
	input := "---\ntitle: X\ntags: [a]\n---\n# X\n\nsome *text* with [[Link]] and #tag\n\n- one\n- two"
	c := fixedConverter()
	r1 := c.Convert(input)
	r2 := c.Convert(input)

	if !reflect.DeepEqual(r1.Document, r2.Document) {
		t.Error("document trees differ between runs")
	}
	if !reflect.DeepEqual(r1.Metadata.Tags, r2.Metadata.Tags) ||
		!reflect.DeepEqual(r1.Metadata.Wikilinks, r2.Metadata.Wikilinks) ||
		!reflect.DeepEqual(r1.Metadata.ExternalLinks, r2.Metadata.ExternalLinks) {
		t.Error("metadata sets differ between runs")
	}
}

func TestConvert_ElementsMatchesBlockCount(t *testing.T) {
	inputs := []string{
		"",
		"# H\npara",
		"- a\n- b\n\n> q\n\n---\n\n```\nx\n```",
		"one\n\ntwo\n\nthree",
	}
	c := fixedConverter()
	for _, in := range inputs {
		res := c.Convert(in)
		if res.Stats.Elements != len(res.Document.Blocks) {
			t.Errorf("input %q: elements = %d, blocks = %d", in, res.Stats.Elements, len(res.Document.Blocks))
		}
	}
}

func TestConvert_FrontmatterExample(t *testing.T) {
	res := fixedConverter().Convert("---\ntags: [a, b]\ncreated: 2024-01-01\n---\n# Hi")

	if len(res.Metadata.Tags) != 2 || res.Metadata.Tags[0] != "a" || res.Metadata.Tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", res.Metadata.Tags)
	}
	if got := models.ISOTimestamp(res.Metadata.CreatedAt); got != "2024-01-01T00:00:00.000Z" {
		t.Errorf("created_at = %q", got)
	}
	if len(res.Document.Blocks) != 1 {
		t.Fatalf("blocks = %#v", res.Document.Blocks)
	}
	h := res.Document.Blocks[0].(models.Heading)
	if h.Level != 1 || h.Text != "Hi" {
		t.Errorf("heading = %#v", h)
	}
}

func TestConvert_EmptyInput(t *testing.T) {
	res := fixedConverter().Convert("")
	if len(res.Document.Blocks) != 0 {
		t.Errorf("blocks = %#v, want none", res.Document.Blocks)
	}
	if res.Metadata.WordCount != 0 || res.Metadata.ReadingTime != 1 {
		t.Errorf("word_count = %d, reading_time = %d", res.Metadata.WordCount, res.Metadata.ReadingTime)
	}
	if res.Stats.Elements != 0 {
		t.Errorf("elements = %d", res.Stats.Elements)
	}
}

func TestConvert_StatsFormats(t *testing.T) {
	res := fixedConverter().Convert("# H\n\npara")
	if !strings.HasSuffix(res.Stats.JSONSize, " KB") {
		t.Errorf("jsonSize = %q", res.Stats.JSONSize)
	}
	if !strings.HasSuffix(res.Stats.ProcessTime, "s") {
		t.Errorf("processTime = %q", res.Stats.ProcessTime)
	}
}

func TestConvert_DocumentJSON(t *testing.T) {
	res := fixedConverter().Convert("# Hi\n\nhas **bold**\n\n- item")
	raw, err := json.Marshal(res.Document)
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, want := range []string{
		`"type":"heading"`,
		`"type":"paragraph"`,
		`"type":"bold"`,
		`"type":"list"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("serialized document missing %s: %s", want, s)
		}
	}
}

func TestConvert_WikilinkAliasEndToEnd(t *testing.T) {
	res := fixedConverter().Convert("[[Target Page|Display]]")
	p := res.Document.Blocks[0].(models.Paragraph)
	if len(p.Spans) != 1 {
		t.Fatalf("spans = %#v", p.Spans)
	}
	w := p.Spans[0].(models.WikilinkSpan)
	if w.Target != "Target Page" || w.Text != "Display" {
		t.Errorf("span = %#v", w)
	}
	if len(res.Metadata.Wikilinks) != 1 || res.Metadata.Wikilinks[0] != "Target Page" {
		t.Errorf("wikilinks = %v", res.Metadata.Wikilinks)
	}
}

func TestConvert_PackageLevel(t *testing.T) {
	res := Convert("# Hello")
	if len(res.Document.Blocks) != 1 {
		t.Errorf("blocks = %#v", res.Document.Blocks)
	}
	if res.Metadata.CreatedAt.IsZero() {
		t.Error("expected default timestamps from wall clock")
	}
}
