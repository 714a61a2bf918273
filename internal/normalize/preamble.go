package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// linkCopiedRe matches the exporter's clipboard-widget residue, including any
// whitespace (newlines too) immediately before it.
var linkCopiedRe = regexp.MustCompile(`\s*Link copied!`)

// stripPreambleTransform drops everything before the first heading line.
// If the document has no heading, or already starts with one, it is left
// alone. The trailing-newline status of the document is preserved.
type stripPreambleTransform struct{}

func (stripPreambleTransform) Name() string  { return "strip_preamble" }
func (stripPreambleTransform) Priority() int { return 10 }

func (stripPreambleTransform) Apply(doc *Document) error {
	text := doc.Content
	hadNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	firstHeading := -1
	for idx, line := range lines {
		if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#") {
			firstHeading = idx
			break
		}
	}
	if firstHeading <= 0 {
		return nil
	}

	out := strings.Join(lines[firstHeading:], "\n")
	if hadNewline {
		out += "\n"
	}
	doc.Content = out
	return nil
}

// linkCopiedTransform removes the fixed "Link copied!" noise string.
type linkCopiedTransform struct{}

func (linkCopiedTransform) Name() string  { return "remove_link_copied" }
func (linkCopiedTransform) Priority() int { return 20 }

func (linkCopiedTransform) Apply(doc *Document) error {
	doc.Content = linkCopiedRe.ReplaceAllString(doc.Content, "")
	return nil
}

// noiseLineTransform drops whole lines whose trimmed form starts with one of
// the configured prefixes (the exporter's "Ask Devin about ..." footer lines).
type noiseLineTransform struct {
	prefixes []string
}

func (noiseLineTransform) Name() string  { return "remove_noise_lines" }
func (noiseLineTransform) Priority() int { return 30 }

func (t noiseLineTransform) Apply(doc *Document) error {
	if len(t.prefixes) == 0 {
		return nil
	}
	text := doc.Content
	hadNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	kept := lines[:0]
	for _, line := range lines {
		if t.isNoise(line) {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	if hadNewline {
		out += "\n"
	}
	doc.Content = out
	return nil
}

func (t noiseLineTransform) isNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range t.prefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
