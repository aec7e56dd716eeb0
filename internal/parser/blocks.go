package parser

import (
	"regexp"
	"strings"

	"github.com/starford/dagaz/internal/models"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	hrRe        = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
	unorderedRe = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\d+\.\s+(.*)$`)
)

const fenceMarker = "```"

// ParseBlocks consumes the body line by line and emits top-level blocks. It
// is a single pass with an explicit cursor and no backtracking, and it never
// fails: malformed input degrades (unclosed fences run to EOF, unterminated
// lists stop at EOF). An empty body yields zero blocks.
func ParseBlocks(body string) []models.Block {
	blocks := []models.Block{}
	if body == "" {
		return blocks
	}

	lines := strings.Split(body, "\n")
	i := 0
	for i < len(lines) {
		line := trimCR(lines[i])

		switch {
		case strings.TrimSpace(line) == "":
			i++

		case strings.HasPrefix(line, fenceMarker):
			var block models.CodeBlock
			block, i = captureCode(lines, i)
			blocks = append(blocks, block)

		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			blocks = append(blocks, models.Heading{Level: len(m[1]), Text: m[2]})
			i++

		case strings.HasPrefix(line, ">"):
			blocks = append(blocks, models.Blockquote{Text: stripQuoteMarker(line)})
			i++

		case hrRe.MatchString(line):
			blocks = append(blocks, models.HorizontalRule{})
			i++

		case unorderedRe.MatchString(line):
			var block models.List
			block, i = captureList(lines, i, false)
			blocks = append(blocks, block)

		case orderedRe.MatchString(line):
			var block models.List
			block, i = captureList(lines, i, true)
			blocks = append(blocks, block)

		default:
			blocks = append(blocks, paragraph(line))
			i++
		}
	}
	return blocks
}

// captureCode consumes a fenced code block starting at lines[start]. The
// interior is kept verbatim (newline-joined, no trimming). A missing closing
// fence consumes to EOF.
func captureCode(lines []string, start int) (models.CodeBlock, int) {
	lang := strings.TrimSpace(trimCR(lines[start])[len(fenceMarker):])
	if lang == "" {
		lang = "text"
	}

	var raw []string
	i := start + 1
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(trimCR(lines[i])), fenceMarker) {
			i++ // consume the closing fence
			break
		}
		raw = append(raw, trimCR(lines[i]))
		i++
	}
	return models.CodeBlock{Language: lang, Code: strings.Join(raw, "\n")}, i
}

// captureList consumes a run of list items of one marker family. Blank lines
// inside the run are skipped and do not terminate it; the first non-matching
// non-blank line does. Unordered items accept any of -, *, + as the marker,
// so a run mixing those symbols still forms a single list.
func captureList(lines []string, start int, ordered bool) (models.List, int) {
	markerRe := unorderedRe
	if ordered {
		markerRe = orderedRe
	}

	var items []models.ListItem
	i := start
	for i < len(lines) {
		line := trimCR(lines[i])
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		m := markerRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		items = append(items, listItem(m[1]))
		i++
	}
	return models.List{Ordered: ordered, Items: items}, i
}

func listItem(text string) models.ListItem {
	spans := ParseInline(text)
	if len(spans) == 1 {
		if t, ok := spans[0].(models.TextSpan); ok {
			return models.ListItem{Text: t.Content}
		}
	}
	if len(spans) == 0 {
		return models.ListItem{Text: text}
	}
	return models.ListItem{Spans: spans}
}

func paragraph(line string) models.Paragraph {
	spans := ParseInline(line)
	if len(spans) == 1 {
		if t, ok := spans[0].(models.TextSpan); ok {
			// Plain-text fast path; semantically identical to a one-span
			// paragraph.
			return models.Paragraph{Text: t.Content}
		}
	}
	return models.Paragraph{Spans: spans}
}

// stripQuoteMarker removes the leading ">" and at most one following space.
func stripQuoteMarker(line string) string {
	text := line[1:]
	return strings.TrimPrefix(text, " ")
}
