package parser

import "strings"

// Frontmatter holds best-effort key/value metadata from a leading ---
// delimited block. Values are string or []string (flow lists like [a, b, c]).
type Frontmatter map[string]any

// ExtractFrontmatter splits a leading frontmatter block from text. The block
// must start at byte 0 with a "---" line and end at a later line consisting
// solely of "---"; without a closing delimiter the whole text is body.
// Parsing is line-oriented and forgiving: malformed lines are skipped, never
// fatal. The returned body has leading blank lines trimmed.
func ExtractFrontmatter(text string) (Frontmatter, string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || trimCR(lines[0]) != "---" {
		return nil, text
	}

	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if trimCR(lines[i]) == "---" {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil, text
	}

	fm := make(Frontmatter)
	for _, line := range lines[1:closeIdx] {
		key, value, ok := parseEntry(trimCR(line))
		if !ok {
			continue
		}
		fm[key] = value
	}

	body := strings.Join(lines[closeIdx+1:], "\n")
	return fm, strings.TrimLeft(body, "\r\n")
}

// parseEntry parses one "key: value" line. Values shaped like [a, b, c] are
// split into a list with quotes and whitespace trimmed from each element.
func parseEntry(line string) (string, any, bool) {
	if strings.TrimSpace(line) == "" {
		return "", nil, false
	}
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", nil, false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" {
		return "", nil, false
	}
	raw := strings.TrimSpace(line[idx+1:])

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var items []string
		for _, part := range strings.Split(raw[1:len(raw)-1], ",") {
			if p := trimQuotes(strings.TrimSpace(part)); p != "" {
				items = append(items, p)
			}
		}
		return key, items, true
	}

	return key, trimQuotes(raw), true
}

func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}
