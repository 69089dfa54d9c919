package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestMarkdownToPDF(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger())

	tests := []struct {
		name     string
		markdown string
		title    string
	}{
		{
			name:     "Basic Markdown",
			markdown: "# Title\n\nSome paragraph text.\n\n- Item 1\n- Item 2",
			title:    "Test Document",
		},
		{
			name:     "Empty Markdown",
			markdown: "",
			title:    "Empty Doc",
		},
		{
			name: "Report with symbols and table",
			markdown: "# 📊 Analysis: TCS.NS\n\n## 🏁 Scorecard\n\n" +
				"| Component | Score |\n|---|---|\n| Forensic | 80 |\n| Ratio | 90 |\n\n" +
				"- 🔴 Auditor resigned\n- 🟡 Receivables growing faster than revenue\n\n" +
				"**Verdict:** ✅ Good",
			title: "TCS.NS",
		},
		{
			name:     "Code and emphasis",
			markdown: "Normal **Bold** *Italic* ***BoldItalic*** `code`\n\n```\nraw block\n```\n\n---\n",
			title:    "Styling",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfBytes, err := renderer.MarkdownToPDF(tt.markdown, tt.title)
			require.NoError(t, err)
			require.NotEmpty(t, pdfBytes)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestMarkdownToPDF_WideTable(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger())

	markdown := "| Metric | FY21 | FY22 | FY23 | Commentary |\n" +
		"|---|---|---|---|---|\n" +
		"| Revenue | 100 | 120 | 150 | Revenue grew steadily on the back of new product launches across every region the company operates in, with a long tail of commentary to force wrapping |\n" +
		"| Net Income | 10 | 12 | 18 | Margins expanded |\n"

	pdfBytes, err := renderer.MarkdownToPDF(markdown, "Wide")
	require.NoError(t, err)
	assert.Greater(t, len(pdfBytes), 500)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "Total: 87/100", "Total: 87/100"},
		{"markers", "🔴 pledge 🟡 receivables", "[RED] pledge [YELLOW] receivables"},
		{"verdict", "✅ Good ❌ Risky", "[OK] Good [X] Risky"},
		{"latin1 kept", "Société Générale", "Société Générale"},
		{"cp1252 punctuation kept", "“quoted” – €5", "“quoted” – €5"},
		{"unknown symbols dropped", "growth 🚀 strong", "growth  strong"},
		{"rupee", "₹500 crore", "Rs.500 crore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestContentStreamText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "single Tj",
			stream: "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET",
			want:   "Hello World",
		},
		{
			name:   "lines split by Td",
			stream: "BT /F1 12 Tf 72 720 Td (Revenue grew) Tj 0 -14 Td (Margins held) Tj ET",
			want:   "Revenue grew\nMargins held",
		},
		{
			name:   "TJ array with kerning gap",
			stream: "BT [(Net) -250 (Income) 12 (s)] TJ ET",
			want:   "Net Incomes",
		},
		{
			name:   "escaped parentheses and octal",
			stream: `BT (Profit \(loss\) \101) Tj ET`,
			want:   "Profit (loss) A",
		},
		{
			name:   "nested parentheses",
			stream: "BT (a (b) c) Tj ET",
			want:   "a (b) c",
		},
		{
			name:   "quote operator starts a new line",
			stream: "BT (first) Tj (second) ' ET",
			want:   "first\nsecond",
		},
		{
			name:   "no text operators",
			stream: "q 1 0 0 1 0 0 cm /Im0 Do Q",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentStreamText(tt.stream))
		})
	}
}

func TestExtractor_RoundTrip(t *testing.T) {
	renderer := NewRenderer(arbor.NewLogger())
	pdfBytes, err := renderer.MarkdownToPDF("# Annual Report\n\nRevenue increased this year.", "Annual Report")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, pdfBytes, 0o644))

	extractor := NewExtractor(arbor.NewLogger())
	pages, err := extractor.ExtractPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)

	text, err := extractor.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Revenue")
}

func TestExtractor_MissingFile(t *testing.T) {
	extractor := NewExtractor(arbor.NewLogger())
	_, err := extractor.ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestContentPageNumber(t *testing.T) {
	n, ok := contentPageNumber("report_Content_page_3.txt")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = contentPageNumber("report_Image_1.png")
	assert.False(t, ok)
}
