// -----------------------------------------------------------------------
// PDF Extractor Interface - Extract text content from PDF documents
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
)

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFExtractor defines the interface for extracting content from PDF documents.
// This interface abstracts the PDF extraction implementation so the document
// Q&A session can be tested without real PDF files.
type PDFExtractor interface {
	// ExtractText extracts all text content from the PDF at path.
	// Returns the full text content concatenated from all pages.
	ExtractText(ctx context.Context, path string) (string, error)

	// ExtractPages extracts text content by page from a PDF.
	ExtractPages(ctx context.Context, path string) ([]PDFPageContent, error)
}
