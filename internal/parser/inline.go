package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/starford/dagaz/internal/models"
)

var (
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCode = regexp.MustCompile("`([^`]+)`")
	linkRe     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
)

// inlineMatch is one recognized construct with its source position.
type inlineMatch struct {
	start, end int
	span       models.Span
}

// ParseInline scans a single logical line and returns its ordered span
// sequence. Each construct type is matched independently over the whole line;
// italic matches falling inside a bold match are discarded (bold wins), the
// survivors are sorted by start offset, and gaps between them become text
// spans. A non-blank line with no matches yields a single text span with raw
// HTML tags stripped. A blank line yields nil.
func ParseInline(line string) []models.Span {
	var matches []inlineMatch

	boldRanges := boldRe.FindAllStringSubmatchIndex(line, -1)
	for _, m := range boldRanges {
		matches = append(matches, inlineMatch{m[0], m[1], models.BoldSpan{Content: line[m[2]:m[3]]}})
	}
	for _, m := range italicRe.FindAllStringSubmatchIndex(line, -1) {
		if insideAny(m[0], boldRanges) {
			continue
		}
		matches = append(matches, inlineMatch{m[0], m[1], models.ItalicSpan{Content: line[m[2]:m[3]]}})
	}
	for _, m := range inlineCode.FindAllStringSubmatchIndex(line, -1) {
		matches = append(matches, inlineMatch{m[0], m[1], models.CodeSpan{Content: line[m[2]:m[3]]}})
	}
	for _, m := range wikilinkRe.FindAllStringSubmatchIndex(line, -1) {
		text, target := splitWikilink(line[m[2]:m[3]])
		matches = append(matches, inlineMatch{m[0], m[1], models.WikilinkSpan{Text: text, Target: target}})
	}
	for _, m := range linkRe.FindAllStringSubmatchIndex(line, -1) {
		matches = append(matches, inlineMatch{m[0], m[1], models.LinkSpan{Text: line[m[2]:m[3]], URL: line[m[4]:m[5]]}})
	}

	if len(matches) == 0 {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		return []models.Span{models.TextSpan{Content: htmlTagRe.ReplaceAllString(line, "")}}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var spans []models.Span
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			// Overlaps an already-emitted construct; earlier match wins.
			continue
		}
		if m.start > cursor {
			spans = append(spans, models.TextSpan{Content: line[cursor:m.start]})
		}
		spans = append(spans, m.span)
		cursor = m.end
	}
	if cursor < len(line) {
		spans = append(spans, models.TextSpan{Content: line[cursor:]})
	}
	return spans
}

// insideAny reports whether pos falls within any of the given match ranges.
func insideAny(pos int, ranges [][]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// splitWikilink resolves [[Target]], [[Target|Alias]], and [[Target#Section]]
// forms: the #section suffix is stripped from the target, and the alias (when
// present) is used as display text.
func splitWikilink(raw string) (text, target string) {
	target = raw
	if i := strings.Index(raw, "|"); i >= 0 {
		target = raw[:i]
		text = strings.TrimSpace(raw[i+1:])
	}
	if i := strings.Index(target, "#"); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimSpace(target)
	if text == "" {
		text = target
	}
	return text, target
}
