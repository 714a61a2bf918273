package normalize

import (
	"regexp"
	"sort"
)

var (
	// ](/owner/repo/...) inline links rooted at the repository host.
	internalLinkRe = regexp.MustCompile(`\]\((/[^)/\s]+/[^)/\s]+(?:/[^)\s]*)?)\)`)

	// [label]: /owner/repo/... reference-style definitions.
	refStyleLinkRe = regexp.MustCompile(`(?m)(^\s*\[[^\]]+\]:\s*)(/[^)/\s]+/[^)/\s]+(?:/[^)\s]*)?)`)

	// https://github.com/owner/repo/blob/<sha>/ with a 7-40 hex digit sha.
	blobSHARe = regexp.MustCompile(`https://github\.com/([^/]+)/([^/]+)/blob/([0-9a-f]{7,40})/`)
)

// internalLinksTransform rewrites host-relative links into absolute
// github.com links, for both inline and reference-style forms.
type internalLinksTransform struct{}

func (internalLinksTransform) Name() string  { return "absolutize_internal_links" }
func (internalLinksTransform) Priority() int { return 40 }

func (internalLinksTransform) Apply(doc *Document) error {
	text := internalLinkRe.ReplaceAllString(doc.Content, `](https://github.com${1})`)
	text = refStyleLinkRe.ReplaceAllString(text, `${1}https://github.com${2}`)
	doc.Content = text
	return nil
}

// sectionLinksTransform remaps blob links whose path is a known section name
// onto the README anchor for that section. It runs before blob-SHA stripping;
// the later pass then removes the sha, so anchor links end up SHA-less.
type sectionLinksTransform struct {
	sections []sectionAnchor
}

type sectionAnchor struct {
	pattern *regexp.Regexp
	anchor  string
}

func newSectionLinksTransform(anchors map[string]string) sectionLinksTransform {
	names := make([]string, 0, len(anchors))
	for name := range anchors {
		names = append(names, name)
	}
	sort.Strings(names)

	t := sectionLinksTransform{}
	for _, name := range names {
		anchor := anchors[name]
		if anchor == "" {
			anchor = Slugify(name)
		}
		t.sections = append(t.sections, sectionAnchor{
			pattern: regexp.MustCompile(
				`https://github\.com/([^/]+)/([^/]+)/blob/([0-9a-f]{7,40})/` + regexp.QuoteMeta(name)),
			anchor: anchor,
		})
	}
	return t
}

func (sectionLinksTransform) Name() string  { return "remap_section_links" }
func (sectionLinksTransform) Priority() int { return 50 }

func (t sectionLinksTransform) Apply(doc *Document) error {
	text := doc.Content
	for _, s := range t.sections {
		text = s.pattern.ReplaceAllString(text,
			`https://github.com/${1}/${2}/blob/${3}/README.md#`+s.anchor)
	}
	doc.Content = text
	return nil
}

// blobSHATransform strips commit SHAs out of github blob URLs so links track
// the default branch instead of a pinned revision.
type blobSHATransform struct{}

func (blobSHATransform) Name() string  { return "strip_blob_sha" }
func (blobSHATransform) Priority() int { return 60 }

func (blobSHATransform) Apply(doc *Document) error {
	doc.Content = blobSHARe.ReplaceAllString(doc.Content, `https://github.com/${1}/${2}/`)
	return nil
}
