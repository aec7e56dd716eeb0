package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/models"
)

var (
	tagRe          = regexp.MustCompile(`(?:^|\s)#([A-Za-z0-9_/-]+)`)
	externalLinkRe = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)]+)\)`)
)

// consumed frontmatter keys; everything else passes through unchanged.
var consumedKeys = map[string]struct{}{
	"title": {}, "tags": {}, "alias": {}, "aliases": {},
	"created": {}, "created_at": {},
	"modified": {}, "updated": {}, "updated_at": {},
}

// dateLayouts are tried in order when parsing frontmatter timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// buildMetadata aggregates tags, links, word count, and frontmatter-derived
// fields into one metadata record. Hashtag and link scans run over the body
// with fenced code stripped so code interiors cannot contribute false
// matches. now supplies the default for missing created/modified timestamps.
func buildMetadata(fm Frontmatter, body string, now time.Time) models.Metadata {
	stripped := stripCodeFences(body)

	wc := WordCount(body)
	meta := models.Metadata{
		Title:         fmString(fm, "title"),
		Tags:          collectTags(fm, stripped),
		Wikilinks:     collectWikilinks(stripped),
		ExternalLinks: collectExternalLinks(stripped),
		Aliases:       fmStrings(fm, "alias", "aliases"),
		WordCount:     wc,
		ReadingTime:   ReadingTime(wc),
		CreatedAt:     fmTime(fm, now, "created", "created_at"),
		UpdatedAt:     fmTime(fm, now, "modified", "updated", "updated_at"),
	}

	for key, value := range fm {
		if _, ok := consumedKeys[key]; ok {
			continue
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]any)
		}
		meta.Extra[key] = value
	}
	return meta
}

// collectTags merges frontmatter tags with inline #hashtags, case-sensitive,
// deduplicated in first-seen order.
func collectTags(fm Frontmatter, body string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	switch v := fm["tags"].(type) {
	case []string:
		for _, t := range v {
			add(t)
		}
	case string:
		for _, t := range strings.Split(v, ",") {
			add(t)
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// collectWikilinks returns deduplicated wikilink targets with alias and
// section suffixes stripped.
func collectWikilinks(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		_, target := splitWikilink(m[1])
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// collectExternalLinks returns deduplicated http(s) link URLs. Relative
// paths, mailto:, and other schemes are not external links.
func collectExternalLinks(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range externalLinkRe.FindAllStringSubmatch(body, -1) {
		url := m[1]
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}

func fmString(fm Frontmatter, key string) string {
	if s, ok := fm[key].(string); ok {
		return s
	}
	return ""
}

func fmStrings(fm Frontmatter, keys ...string) []string {
	for _, key := range keys {
		switch v := fm[key].(type) {
		case []string:
			return v
		case string:
			if v != "" {
				return []string{v}
			}
		}
	}
	return nil
}

// fmTime returns the first parseable timestamp among the given frontmatter
// keys, or fallback when none parses.
func fmTime(fm Frontmatter, fallback time.Time, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := fm[key].(string)
		if !ok {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t
			}
		}
	}
	return fallback
}
