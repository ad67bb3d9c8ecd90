package pdf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/bdougie/pagecap/internal/pageset"
)

// OutputName is the PDF written next to the pages
const OutputName = "output.pdf"

// ErrNoImagesFound is returned when a directory has no page images
var ErrNoImagesFound = errors.New("no page images found")

func init() {
	api.DisableConfigDir()
}

// Assembler writes page images into a single PDF
type Assembler struct {
	logger *slog.Logger
	conf   *model.Configuration
}

// NewAssembler creates an assembler
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		logger: logger,
		conf:   model.NewDefaultConfiguration(),
	}
}

// Assemble writes pages 1..pageCount from dir into outPath, in index order
func (a *Assembler) Assemble(dir string, pageCount int, outPath string) error {
	if pageCount <= 0 {
		return fmt.Errorf("%w in '%s'", ErrNoImagesFound, dir)
	}
	return a.write(pageset.Paths(dir, pageCount), outPath)
}

// AssembleFromDirectory writes every page file in dir, in name order, into dir/output.pdf
func (a *Assembler) AssembleFromDirectory(dir string) (string, error) {
	pages, err := pageset.List(dir)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w in '%s'", ErrNoImagesFound, dir)
	}
	if len(pages) > pageset.MaxOrderedPages {
		a.logger.Warn("page numbers past the padding width do not sort in order", "pages", len(pages))
	}

	outPath := filepath.Join(dir, OutputName)
	if err := a.write(pages, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

func (a *Assembler) write(pages []string, outPath string) error {
	for _, p := range pages {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("missing page image: %w", err)
		}
	}

	// pdfcpu appends to an existing file
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace '%s': %w", outPath, err)
	}

	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImagesFile(pages, outPath, imp, a.conf); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("failed to write PDF '%s': %w", outPath, err)
	}

	a.logger.Info("PDF written", "path", outPath, "pages", len(pages))
	return nil
}
