package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating notes.
const NoteFormatContract = `# Dagaz Note Format Contract

Notes created through Dagaz SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # RECOMMENDED – used in listings and search
tags: [tag-one, tag-two]            # OPTIONAL – comma-joined or flow list
created: 2025-01-15                 # OPTIONAL – ISO-8601 date or datetime
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes by title.
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **Frontmatter is optional but recommended.** When present, the ` + "`" + `---` + "`" + `
   fences must be the first thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` is the primary display name.** Without it, the first level-1
   heading is used, then the file name.
3. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `).
   Inline ` + "`" + `#hashtags` + "`" + ` in the body are also collected as tags.
4. **Wikilinks** use double brackets: ` + "`" + `[[Other Note]]` + "`" + `. The target is the
   title of the referenced note. A ` + "`" + `#section` + "`" + ` suffix is allowed and is
   stripped from the stored target.
5. **External links** use standard Markdown syntax: ` + "`" + `[text](https://...)` + "`" + `.
   Only http and https URLs count as external links in metadata.
6. **Encoding** is UTF-8.
7. **No HTML** unless absolutely necessary; raw tags are stripped from
   plain-text spans and word counts.

## Example

` + "```" + `markdown
---
title: Weekly standup 2025-01-20
tags: [meeting-notes, project-x]
created: 2025-01-20
---

# Weekly standup 2025-01-20

Attendees: Alice, Bob.

## Action items

- [[Alice]] to review the [[Design Doc]]
- Bob to update [[Project X Roadmap|the roadmap]]
` + "```" + `
`
