// Package extractor converts source files into plain text, dispatched by
// file extension. Plain-text formats are read directly, docx archives are
// unpacked in-process, and PDF extraction shells out to pdftotext so the
// binary stays pure Go.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// pdftotextBin is the poppler utility used for PDF extraction.
const pdftotextBin = "pdftotext"

// textExtensions are read directly as UTF-8 text.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".log":      true,
}

// Extractor dispatches extraction by file extension.
type Extractor struct{}

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text content of the file at path. Unsupported
// extensions fail with domain.ErrUnsupportedType.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case textExtensions[ext]:
		return extractPlainText(path)
	case ext == ".pdf":
		return extractPDF(ctx, path)
	case ext == ".docx":
		return extractDocx(path)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
}

// SupportedExtensions lists the extensions (with dot) this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	exts := make([]string, 0, len(textExtensions)+2)
	for ext := range textExtensions {
		exts = append(exts, ext)
	}
	exts = append(exts, ".pdf", ".docx")
	return exts
}

func extractPlainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(content), nil
}

// extractPDF shells out to pdftotext, writing to stdout ("-").
func extractPDF(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath(pdftotextBin); err != nil {
		return "", fmt.Errorf("%s not installed: %w", pdftotextBin, err)
	}

	cmd := exec.CommandContext(ctx, pdftotextBin, "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s failed for %s: %s", pdftotextBin, path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s failed for %s: %w", pdftotextBin, path, err)
	}
	return string(out), nil
}
