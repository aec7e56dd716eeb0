package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?s)```.*?```")
	inlineCodeAnyRe = regexp.MustCompile("`[^`]*`")
	imageRe         = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkTextRe      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	quoteMarkRe     = regexp.MustCompile(`(?m)^>\s?`)
	headingMarkRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	unorderedMarkRe = regexp.MustCompile(`(?m)^[-*+]\s+`)
	orderedMarkRe   = regexp.MustCompile(`(?m)^\d+\.\s+`)
	emphasisMarkRe  = regexp.MustCompile(`[*_~]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// WordCount counts the words of a Markdown body after stripping syntax. The
// strip order is load-bearing: reordering changes results on inputs with
// overlapping syntax (a link inside a list item, emphasis inside a heading).
func WordCount(body string) int {
	text := stripCodeFences(body)
	text = inlineCodeAnyRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "")
	text = linkTextRe.ReplaceAllString(text, "$1")
	text = wikilinkRe.ReplaceAllStringFunc(text, func(raw string) string {
		display, _ := splitWikilink(raw[2 : len(raw)-2])
		return display
	})
	text = quoteMarkRe.ReplaceAllString(text, "")
	text = headingMarkRe.ReplaceAllString(text, "")
	text = unorderedMarkRe.ReplaceAllString(text, "")
	text = orderedMarkRe.ReplaceAllString(text, "")
	text = emphasisMarkRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if text == "" {
		return 0
	}
	count := 0
	for _, token := range strings.Split(text, " ") {
		if strings.ContainsFunc(token, isAlphanumeric) {
			count++
		}
	}
	return count
}

// ReadingTime estimates minutes to read at 200 words per minute, never below 1.
func ReadingTime(wordCount int) int {
	minutes := (wordCount + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// stripCodeFences removes fenced code blocks. A dangling open fence with no
// closer swallows everything to EOF, matching the block parser's tolerance.
func stripCodeFences(body string) string {
	out := fencedBlockRe.ReplaceAllString(body, "")
	if i := strings.Index(out, fenceMarker); i >= 0 {
		out = out[:i]
	}
	return out
}

// isAlphanumeric reports whether r is a letter or digit. Tokens left with
// only punctuation after stripping (a bare ".") are not words.
func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
