package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/pdfexport"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Output string `arg:"" help:"Normalized output directory containing project subdirectories" type:"path"`
	PDFDir string `name:"pdf-dir" help:"Directory for generated PDF files" default:"./pdf"`
}

func (e *ExportCmd) Run(_ *Global, _ *CLI) error {
	if _, err := os.Stat(e.Output); err != nil {
		return errors.Newf(errors.CategoryUsage, "output directory %s does not exist; run normalize first", e.Output)
	}

	exporter, err := pdfexport.NewExporter()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pdfs, err := exporter.ExportAll(ctx, e.Output, e.PDFDir)
	if err != nil {
		return err
	}
	slog.Info("Export complete", slog.Int("pdfs", len(pdfs)))
	return nil
}
