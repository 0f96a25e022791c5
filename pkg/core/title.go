package core

import "strings"

// DefaultTitle is used when a note has no usable content to derive a title
// from. The editor pre-fills new sessions with the same literal.
const DefaultTitle = "New note"

// maxTitleRunes is the truncation point for generated titles.
const maxTitleRunes = 50

// TitleFromContent derives a display title from free-form content.
//
// Rules:
//  1. Empty (or whitespace-only) content yields DefaultTitle.
//  2. Otherwise the first line that is non-empty after trimming is used.
//  3. Lines longer than 50 characters are truncated and marked with an
//     ellipsis.
//  4. If every line is blank, fall back to DefaultTitle.
func TitleFromContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return DefaultTitle
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxTitleRunes {
			return string(runes[:maxTitleRunes]) + "…"
		}
		return line
	}

	return DefaultTitle
}
