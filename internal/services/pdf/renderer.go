package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/fundalyst/internal/interfaces"
)

const (
	baseFont     = "Helvetica"
	monoFont     = "Courier"
	bodySize     = 10.0
	tableSize    = 8.0
	lineHeight   = 5.0
	pageMargin   = 15.0
	maxCellLines = 6
)

// Renderer implements interfaces.PDFRenderer with goldmark and fpdf
type Renderer struct {
	md     goldmark.Markdown
	logger arbor.ILogger
}

var _ interfaces.PDFRenderer = (*Renderer)(nil)

// NewRenderer creates a markdown to PDF renderer
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
		logger: logger,
	}
}

// MarkdownToPDF renders markdown into an A4 PDF document
func (r *Renderer) MarkdownToPDF(markdown, title string) ([]byte, error) {
	source := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(source))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("fundalyst", true)
	pdf.AddPage()
	pdf.SetFont(baseFont, "", bodySize)

	w := &pdfWriter{
		pdf:       pdf,
		source:    source,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	if err := ast.Walk(doc, w.walk); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to layout PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	r.logger.Debug().
		Str("title", title).
		Int("markdown_len", len(markdown)).
		Int("pdf_size", buf.Len()).
		Msg("Rendered report PDF")

	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf       *fpdf.Fpdf
	source    []byte
	translate func(string) string
	bold      int
	italic    int
	listDepth int
}

func (w *pdfWriter) write(s string) {
	w.pdf.Write(lineHeight, w.translate(Sanitize(s)))
}

func (w *pdfWriter) applyStyle() {
	style := ""
	if w.bold > 0 {
		style += "B"
	}
	if w.italic > 0 {
		style += "I"
	}
	w.pdf.SetFont(baseFont, style, bodySize)
}

func (w *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.pdf.Ln(lineHeight)
			w.pdf.SetFont(baseFont, "B", headingSize(node.Level))
		} else {
			w.pdf.Ln(lineHeight + 2)
			w.applyStyle()
		}
	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(lineHeight)
			if w.listDepth == 0 {
				w.pdf.Ln(2)
			}
		}
	case *ast.Text:
		if entering {
			w.write(string(node.Segment.Value(w.source)))
			if node.SoftLineBreak() {
				w.write(" ")
			}
			if node.HardLineBreak() {
				w.pdf.Ln(lineHeight)
			}
		}
	case *ast.String:
		if entering {
			w.write(string(node.Value))
		}
	case *ast.Emphasis:
		delta := -1
		if entering {
			delta = 1
		}
		if node.Level >= 2 {
			w.bold += delta
		} else {
			w.italic += delta
		}
		w.applyStyle()
	case *ast.CodeSpan:
		if entering {
			w.pdf.SetFont(monoFont, "", bodySize)
			w.write(string(node.Text(w.source)))
			w.applyStyle()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			w.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			w.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			w.listDepth++
		} else {
			w.listDepth--
			if w.listDepth == 0 {
				w.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			w.pdf.SetX(pageMargin + float64(w.listDepth-1)*5)
			w.write("- ")
		}
	case *ast.ThematicBreak:
		if entering {
			y := w.pdf.GetY() + 2
			pageW, _ := w.pdf.GetPageSize()
			w.pdf.Line(pageMargin, y, pageW-pageMargin, y)
			w.pdf.Ln(5)
		}
	case *extast.Table:
		if entering {
			w.table(collectRows(node, w.source))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 13
	case 3:
		return 11
	}
	return bodySize
}

func (w *pdfWriter) codeBlock(lines *text.Segments) {
	w.pdf.SetFont(monoFont, "", bodySize-1)
	w.pdf.SetFillColor(242, 242, 242)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		content := strings.TrimRight(string(line.Value(w.source)), "\r\n")
		w.pdf.MultiCell(0, lineHeight-1, w.translate(Sanitize(content)), "", "L", true)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.pdf.Ln(2)
	w.applyStyle()
}

func collectRows(table *extast.Table, source []byte) [][]string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(string(cell.Text(source))))
		}
		rows = append(rows, cells)
	}
	return rows
}

// table lays columns out in proportion to their longest cell, first row as header
func (w *pdfWriter) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = w.translate(Sanitize(rows[i][j]))
		}
	}

	pageW, pageH := w.pdf.GetPageSize()
	usable := pageW - 2*pageMargin
	widths := w.columnWidths(rows, cols, usable)
	cellLine := tableSize / 2

	w.pdf.Ln(1)
	for i, row := range rows {
		style := ""
		if i == 0 {
			style = "B"
		}
		w.pdf.SetFont(baseFont, style, tableSize)

		lines := make([][]string, cols)
		height := 1
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			lines[j] = w.pdf.SplitText(cell, widths[j]-2)
			if len(lines[j]) > maxCellLines {
				lines[j] = append(lines[j][:maxCellLines-1], lines[j][maxCellLines-1]+"...")
			}
			if len(lines[j]) > height {
				height = len(lines[j])
			}
		}
		rowH := float64(height)*cellLine + 2

		if w.pdf.GetY()+rowH > pageH-pageMargin {
			w.pdf.AddPage()
			w.pdf.SetFont(baseFont, style, tableSize)
		}

		x, y := pageMargin, w.pdf.GetY()
		for j := 0; j < cols; j++ {
			if i == 0 {
				w.pdf.SetFillColor(225, 225, 225)
				w.pdf.Rect(x, y, widths[j], rowH, "FD")
			} else {
				w.pdf.Rect(x, y, widths[j], rowH, "D")
			}
			for k, line := range lines[j] {
				w.pdf.SetXY(x+1, y+1+float64(k)*cellLine)
				w.pdf.CellFormat(widths[j]-2, cellLine, line, "", 0, "L", false, 0, "")
			}
			x += widths[j]
		}
		w.pdf.SetXY(pageMargin, y+rowH)
	}
	w.pdf.Ln(3)
	w.applyStyle()
}

func (w *pdfWriter) columnWidths(rows [][]string, cols int, usable float64) []float64 {
	w.pdf.SetFont(baseFont, "B", tableSize)
	natural := make([]float64, cols)
	total := 0.0
	for j := 0; j < cols; j++ {
		for _, row := range rows {
			if j < len(row) {
				if cw := w.pdf.GetStringWidth(row[j]) + 4; cw > natural[j] {
					natural[j] = cw
				}
			}
		}
		if natural[j] < 12 {
			natural[j] = 12
		}
		total += natural[j]
	}

	widths := make([]float64, cols)
	for j := range natural {
		if total > usable {
			widths[j] = natural[j] * usable / total
		} else {
			widths[j] = natural[j]
		}
	}
	return widths
}
