// Package ordinal renames documents to carry two-digit ordinal prefixes
// (01-intro.md, 02-setup.md) derived from the README index, and rewrites
// intra-tree links to follow the renames.
package ordinal

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/normalize"
)

var (
	// Index links sometimes arrive wrapped across lines; rejoin them
	// before matching line by line.
	brokenLinkRe = regexp.MustCompile(`\]\([^)]*\n[^)]*\)`)
	indexLineRe  = regexp.MustCompile(`^\s*-\s+\[[^\]]+\]\(([^)]+)\)\s*$`)
	numberedRe   = regexp.MustCompile(`^\d{2}-`)
	mdLinkRe     = regexp.MustCompile(`\]\(([^)]+)\)`)
)

// Result lists the files touched by an ordinal pass, relative to the
// output directory in walk order (rewrites first, then renames).
type Result struct {
	Changed []string
}

// parseReadmeIndex extracts local markdown targets from the README's
// top-level bullet list, in document order.
func parseReadmeIndex(readmePath string) ([]string, error) {
	data, err := os.ReadFile(readmePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "read README index")
	}

	text := brokenLinkRe.ReplaceAllStringFunc(string(data), func(m string) string {
		return strings.ReplaceAll(m, "\n", "")
	})

	var items []string
	for _, line := range strings.Split(text, "\n") {
		m := indexLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		target := m[1]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(target), ".md") {
			continue
		}
		items = append(items, target)
	}
	return items, nil
}

// buildMapping assigns each unnumbered index entry its position-based
// prefix. Entries already carrying an NN- prefix keep their name and
// their slot.
func buildMapping(readmePath string) (map[string]string, error) {
	items, err := parseReadmeIndex(readmePath)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string)
	for idx, target := range items {
		filename := path.Base(target)
		if numberedRe.MatchString(filename) {
			continue
		}
		newName := fmt.Sprintf("%02d-%s", idx+1, filename)
		if dir := path.Dir(target); dir != "." {
			mapping[target] = dir + "/" + newName
		} else {
			mapping[target] = newName
		}
	}
	return mapping, nil
}

// RewriteLinks updates markdown link targets according to mapping,
// preserving ../ and ./ prefixes and #anchor suffixes. External links
// pass through untouched.
func RewriteLinks(text string, mapping map[string]string) string {
	return mdLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		target := m[2 : len(m)-1]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			return m
		}

		anchor := ""
		if pos := strings.Index(target, "#"); pos >= 0 {
			anchor = target[pos:]
			target = target[:pos]
		}

		prefix := ""
		for strings.HasPrefix(target, "../") {
			prefix += "../"
			target = target[3:]
		}
		if strings.HasPrefix(target, "./") {
			prefix += "./"
			target = target[2:]
		}

		newTarget, ok := mapping[target]
		if !ok {
			return m
		}
		return "](" + prefix + newTarget + anchor + ")"
	})
}

// Apply runs the ordinal pass over outputDir: normalize the README, build
// the mapping from its index, rewrite links in every document, then rename
// the files themselves. In dry-run mode nothing is written or renamed.
func Apply(outputDir string, n *normalize.Normalizer, dryRun bool) (*Result, error) {
	readmePath := filepath.Join(outputDir, "README.md")
	if _, err := os.Stat(readmePath); err != nil {
		return &Result{}, nil
	}

	// The index parse depends on a clean README.
	if original, err := os.ReadFile(readmePath); err == nil {
		cleaned, _, perr := n.ProcessText(string(original))
		if perr != nil {
			return nil, perr
		}
		if cleaned != string(original) && !dryRun {
			if werr := os.WriteFile(readmePath, []byte(cleaned), 0o644); werr != nil {
				return nil, errors.Wrap(werr, errors.CategoryFileSystem, "write README")
			}
		}
	}

	mapping, err := buildMapping(readmePath)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	if len(mapping) == 0 {
		return result, nil
	}

	err = filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		original, rerr := os.ReadFile(p)
		if rerr != nil {
			return errors.Wrap(rerr, errors.CategoryFileSystem, "read document")
		}
		updated := RewriteLinks(string(original), mapping)
		if updated == string(original) {
			return nil
		}
		rel, rerr := filepath.Rel(outputDir, p)
		if rerr != nil {
			return errors.Wrap(rerr, errors.CategoryFileSystem, "relativize path")
		}
		result.Changed = append(result.Changed, filepath.ToSlash(rel))
		if dryRun {
			return nil
		}
		if werr := os.WriteFile(p, []byte(updated), 0o644); werr != nil {
			return errors.Wrap(werr, errors.CategoryFileSystem, "write document")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for old, renamed := range mapping {
		oldPath := filepath.Join(outputDir, filepath.FromSlash(old))
		newPath := filepath.Join(outputDir, filepath.FromSlash(renamed))
		if oldPath == newPath {
			continue
		}
		if _, serr := os.Stat(oldPath); serr != nil {
			continue
		}
		result.Changed = append(result.Changed, renamed)
		if dryRun {
			continue
		}
		if merr := os.MkdirAll(filepath.Dir(newPath), 0o755); merr != nil {
			return nil, errors.Wrap(merr, errors.CategoryFileSystem, "create rename directory")
		}
		if rerr := os.Rename(oldPath, newPath); rerr != nil {
			return nil, errors.Wrap(rerr, errors.CategoryFileSystem, "rename document")
		}
	}
	return result, nil
}
