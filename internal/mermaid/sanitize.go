package mermaid

import (
	"regexp"
	"strings"
)

// Placeholders substituted for markdown that mermaid cannot render inside
// node labels.
const (
	listPlaceholder = "Unsupported markdown: list"
	linkPlaceholder = "Unsupported markdown: link"
)

var (
	listItemRe = regexp.MustCompile(`^\s*(?:\d+\.\s+|[-*+]\s+)`)
	mdLinkRe   = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
	urlRe      = regexp.MustCompile(`https?://\S+`)
	softBreakRe = regexp.MustCompile(`<br\s*/?>`)
)

// containsListMarker reports whether any <br>-separated segment of the label
// starts like a numbered or bulleted list item.
func containsListMarker(label string) bool {
	for _, part := range softBreakRe.Split(label, -1) {
		if listItemRe.MatchString(strings.TrimSpace(part)) {
			return true
		}
	}
	return false
}

// sanitizeLabel rewrites one node display text. A list anywhere in the label
// replaces the whole label; otherwise each embedded markdown link or bare URL
// is replaced independently.
func sanitizeLabel(label string) string {
	if containsListMarker(label) {
		return listPlaceholder
	}
	label = mdLinkRe.ReplaceAllString(label, linkPlaceholder)
	label = urlRe.ReplaceAllString(label, linkPlaceholder)
	return label
}

// SanitizeNodeLabels rewrites every ["display text"] occurrence on every
// line. It applies to all diagram kinds, not just flowcharts.
func SanitizeNodeLabels(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = nodeLabelRe.ReplaceAllStringFunc(line, func(match string) string {
			inner := match[2 : len(match)-2]
			return `["` + sanitizeLabel(inner) + `"]`
		})
	}
	return out
}
