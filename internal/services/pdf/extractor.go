// -----------------------------------------------------------------------
// PDF Extractor - text content from PDF files for document Q&A
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger: logger,
	}
}

// ExtractText extracts all text content from the PDF at path, pages separated by blank lines.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	pages, err := e.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

// ExtractPages extracts text content by page from the PDF at path.
// Pages whose content streams carry no text operators (scanned pages) come back empty.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]interfaces.PDFPageContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp("", "fundalyst-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	pageTexts, err := readContentFiles(outDir)
	if err != nil {
		return nil, err
	}

	pages := make([]interfaces.PDFPageContent, 0, pageCount)
	empty := 0
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := pageTexts[pageNum]
		if strings.TrimSpace(text) == "" {
			empty++
		}
		pages = append(pages, interfaces.PDFPageContent{
			PageNumber: pageNum,
			Text:       text,
		})
	}

	e.logger.Debug().
		Str("path", path).
		Int("page_count", pageCount).
		Int("empty_pages", empty).
		Msg("Extracted PDF text")

	return pages, nil
}

// readContentFiles maps page numbers to decoded text.
// pdfcpu names content files "<name>_Content_page_<n>.txt", one or more per page.
func readContentFiles(dir string) (map[int]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted content: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	pageTexts := make(map[int]string)
	for _, name := range names {
		pageNum, ok := contentPageNumber(name)
		if !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if text := ContentStreamText(string(raw)); text != "" {
			if existing := pageTexts[pageNum]; existing != "" {
				pageTexts[pageNum] = existing + "\n" + text
			} else {
				pageTexts[pageNum] = text
			}
		}
	}
	return pageTexts, nil
}

func contentPageNumber(name string) (int, bool) {
	idx := strings.LastIndex(name, "Content_page_")
	if idx < 0 {
		return 0, false
	}
	var pageNum int
	if _, err := fmt.Sscanf(name[idx:], "Content_page_%d", &pageNum); err != nil {
		return 0, false
	}
	return pageNum, true
}
