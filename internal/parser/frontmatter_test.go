package parser

import (
	"testing"
)

func TestExtractFrontmatter_KeyValues(t *testing.T) {
	fm, body := ExtractFrontmatter("---\ntitle: Hello\ntags: [a, b]\ncreated: 2024-01-01\n---\n# Hello\nBody text.\n")
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if fm["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", fm["title"])
	}
	tags, ok := fm["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", fm["tags"])
	}
	if fm["created"] != "2024-01-01" {
		t.Errorf("created = %v", fm["created"])
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontmatter_MustStartAtByteZero(t *testing.T) {
	input := "\n---\ntitle: Hello\n---\nBody"
	fm, body := ExtractFrontmatter(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want the full input", body)
	}
}

func TestExtractFrontmatter_Unclosed(t *testing.T) {
	input := "---\ntitle: Hello\nno closing fence"
	fm, body := ExtractFrontmatter(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter on unclosed block, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want the full input", body)
	}
}

func TestExtractFrontmatter_MalformedLinesSkipped(t *testing.T) {
	fm, _ := ExtractFrontmatter("---\ntitle: Hello\nthis line has no colon\n: empty key\n---\nBody")
	if len(fm) != 1 || fm["title"] != "Hello" {
		t.Errorf("fm = %v, want only title", fm)
	}
}

func TestExtractFrontmatter_QuotedValues(t *testing.T) {
	fm, _ := ExtractFrontmatter("---\ntitle: \"Quoted Title\"\nalias: 'single'\n---\n")
	if fm["title"] != "Quoted Title" {
		t.Errorf("title = %v", fm["title"])
	}
	if fm["alias"] != "single" {
		t.Errorf("alias = %v", fm["alias"])
	}
}

func TestExtractFrontmatter_ColonInValue(t *testing.T) {
	fm, _ := ExtractFrontmatter("---\nurl: https://example.com/page\n---\n")
	if fm["url"] != "https://example.com/page" {
		t.Errorf("url = %v, want the full URL", fm["url"])
	}
}

func TestExtractFrontmatter_EmptyBlock(t *testing.T) {
	fm, body := ExtractFrontmatter("---\n---\nBody")
	if fm == nil || len(fm) != 0 {
		t.Errorf("fm = %v, want empty map", fm)
	}
	if body != "Body" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontmatter_CRLF(t *testing.T) {
	fm, body := ExtractFrontmatter("---\r\ntitle: Hello\r\n---\r\nBody\r\n")
	if fm["title"] != "Hello" {
		t.Errorf("title = %v", fm["title"])
	}
	if body != "Body\r\n" {
		t.Errorf("body = %q", body)
	}
}
