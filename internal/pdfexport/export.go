// Package pdfexport turns normalized project directories into single PDF
// documents. It consolidates each project's markdown, renders mermaid
// diagrams to PNG when mermaid-cli is installed, and drives pandoc with a
// xelatex engine for the final conversion.
package pdfexport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

// PandocAvailable reports whether pandoc can be executed.
func PandocAvailable() bool {
	return exec.Command("pandoc", "--version").Run() == nil
}

// MmdcAvailable reports whether mermaid-cli can be executed.
func MmdcAvailable() bool {
	return exec.Command("mmdc", "--version").Run() == nil
}

// Exporter converts project directories to PDFs.
type Exporter struct {
	hasMmdc bool
}

// NewExporter probes the external toolchain once. Missing mmdc downgrades
// diagrams to plain code blocks rather than failing the export.
func NewExporter() (*Exporter, error) {
	if !PandocAvailable() {
		return nil, errors.New(errors.CategoryExternal, "pandoc is required for PDF export but was not found")
	}
	hasMmdc := MmdcAvailable()
	if !hasMmdc {
		slog.Warn("mermaid-cli (mmdc) not found; diagrams will render as code blocks")
	}
	return &Exporter{hasMmdc: hasMmdc}, nil
}

// ExportAll converts every project directory directly under outputDir that
// contains markdown files. It returns the generated PDF paths; individual
// project failures are logged and skipped.
func (e *Exporter) ExportAll(ctx context.Context, outputDir, pdfDir string) ([]string, error) {
	if err := os.MkdirAll(pdfDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "create PDF output directory")
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "read output directory")
	}

	var pdfs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(outputDir, entry.Name())
		if !hasMarkdownFiles(projectDir) {
			continue
		}
		slog.Info("Converting project", slog.String("project", entry.Name()))
		pdfPath, cerr := e.ConvertProject(ctx, projectDir, pdfDir)
		if cerr != nil {
			slog.Error("Project conversion failed", slog.String("project", entry.Name()), logfields.Error(cerr))
			continue
		}
		slog.Info("Created PDF", logfields.Path(pdfPath))
		pdfs = append(pdfs, pdfPath)
	}
	return pdfs, nil
}

// ConvertProject consolidates one project directory and runs pandoc.
func (e *Exporter) ConvertProject(ctx context.Context, projectDir, pdfDir string) (string, error) {
	projectName := filepath.Base(projectDir)

	tempDir, err := os.MkdirTemp("", "docnorm-pdf-*")
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, "create temp directory")
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	consolidated, err := e.consolidateProject(ctx, projectDir, tempDir)
	if err != nil {
		return "", err
	}
	mdPath := filepath.Join(tempDir, "consolidated.md")
	if err := os.WriteFile(mdPath, []byte(consolidated), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, "write consolidated markdown")
	}

	titlePath := filepath.Join(tempDir, "title.tex")
	if err := os.WriteFile(titlePath, []byte(titlePage(projectName)), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, "write title page")
	}

	pdfPath := filepath.Join(pdfDir, projectName+".pdf")
	cmd := exec.CommandContext(ctx, "pandoc",
		mdPath,
		"-o", pdfPath,
		"--pdf-engine=xelatex",
		"-V", "geometry:margin=1in",
		"-V", "mainfont:Helvetica",
		"-V", "monofont:Menlo",
		"-V", "fontsize=11pt",
		"-B", titlePath,
		"--toc",
		"--toc-depth=2",
		"-f", "markdown+emoji",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.Wrapf(err, errors.CategoryExternal, "pandoc: %s", strings.TrimSpace(string(out)))
	}
	return pdfPath, nil
}

// consolidateProject joins the README (minus its title heading) and every
// other markdown file in name order into one document, separated by
// horizontal rules.
func (e *Exporter) consolidateProject(ctx context.Context, projectDir, imagesDir string) (string, error) {
	var b strings.Builder

	readmePath := filepath.Join(projectDir, "README.md")
	if data, err := os.ReadFile(readmePath); err == nil {
		content := string(data)
		// Drop the README's own title so it does not duplicate the PDF
		// title page.
		if strings.HasPrefix(strings.TrimLeft(content, " \t\r\n"), "#") {
			lines := strings.Split(content, "\n")
			if len(lines) > 1 {
				content = strings.Join(lines[1:], "\n")
			} else {
				content = ""
			}
		}
		b.WriteString(e.processMermaid(ctx, content, imagesDir, "readme"))
		b.WriteString("\n\n---\n\n")
	}

	files, err := sortedMarkdownFiles(projectDir)
	if err != nil {
		return "", err
	}
	for idx, path := range files {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return "", errors.Wrap(rerr, errors.CategoryFileSystem, "read project document")
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		prefix := fmt.Sprintf("sec%d-%s", idx+1, stem)
		b.WriteString(e.processMermaid(ctx, string(data), imagesDir, prefix))
		b.WriteString("\n\n---\n\n")
	}
	return b.String(), nil
}

// processMermaid replaces mermaid fences with rendered PNG references, or
// with anonymous code fences when rendering is unavailable or fails.
func (e *Exporter) processMermaid(ctx context.Context, text, imagesDir, prefix string) string {
	var b strings.Builder
	var diagram strings.Builder
	inMermaid := false
	count := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") && strings.Contains(line, "mermaid") {
			inMermaid = true
			diagram.Reset()
			continue
		}
		if inMermaid {
			if strings.HasPrefix(line, "```") {
				inMermaid = false
				count++
				b.WriteString(e.renderOrKeep(ctx, diagram.String(), imagesDir, prefix, count))
				diagram.Reset()
			} else {
				diagram.WriteString(line)
				diagram.WriteString("\n")
			}
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Exporter) renderOrKeep(ctx context.Context, code, imagesDir, prefix string, n int) string {
	if e.hasMmdc {
		imgPath := filepath.Join(imagesDir, fmt.Sprintf("%s-diagram-%d.png", prefix, n))
		err := renderMermaidPNG(ctx, code, imgPath)
		if err == nil {
			return fmt.Sprintf("\n![Diagram %d](%s)\n\n", n, imgPath)
		}
		slog.Warn("Failed to render mermaid diagram", logfields.Error(err))
	}
	return "\n```\n" + code + "\n```\n\n"
}

func renderMermaidPNG(ctx context.Context, code, outputPath string) error {
	tempDir, err := os.MkdirTemp("", "docnorm-mmd-*")
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "create temp directory")
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	inputFile := filepath.Join(tempDir, "diagram.mmd")
	if err := os.WriteFile(inputFile, []byte(code), 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "write diagram source")
	}

	cmd := exec.CommandContext(ctx, "mmdc",
		"-i", inputFile,
		"-o", outputPath,
		"-b", "white",
		"-t", "default",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, errors.CategoryExternal, "mmdc: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func sortedMarkdownFiles(projectDir string) ([]string, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "read project directory")
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "README.md" {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		files = append(files, filepath.Join(projectDir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func hasMarkdownFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			return true
		}
	}
	return false
}

func titlePage(projectName string) string {
	escaped := strings.ReplaceAll(projectName, "_", `\_`)
	return fmt.Sprintf(`\begin{titlepage}
\centering
\vspace*{3cm}
{\fontsize{32}{40}\selectfont\bfseries %s \par}
\vfill
\end{titlepage}
`, escaped)
}
