package interfaces

// PDFRenderer turns a markdown report into a PDF document
type PDFRenderer interface {
	// MarkdownToPDF renders markdown to PDF bytes; title is stored as document metadata
	MarkdownToPDF(markdown, title string) ([]byte, error)
}
