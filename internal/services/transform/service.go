// Package transform turns fetched HTML into text an LLM can read.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

// noiseSelectors are removed before conversion
var noiseSelectors = []string{
	"script", "style", "noscript", "nav", "footer", "header", "aside", "form",
	"iframe", "svg", "button", "[role='navigation']", "[role='banner']",
	".advertisement", ".ads", ".cookie-banner",
}

// contentSelectors are tried in priority order to find the main content
var contentSelectors = []string{"main", "article", "[role='main']", "#content", ".content", "body"}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	blankRe = regexp.MustCompile(`\n{3,}`)
)

// Service provides HTML to markdown conversion
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new transform service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// HTMLToMarkdown converts HTML content to markdown.
// baseURL is used for resolving relative links.
// Page chrome (scripts, navigation, footers) is stripped first; on conversion
// failure the tag-stripped text is returned instead of an error.
func (s *Service) HTMLToMarkdown(html string, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	s.logger.Debug().
		Int("html_length", len(html)).
		Str("base_url", baseURL).
		Msg("Converting HTML to markdown")

	content := html
	if cleaned, err := mainContent(html); err == nil && strings.TrimSpace(cleaned) != "" {
		content = cleaned
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse HTML document, converting raw input")
	}

	converter := md.NewConverter(baseURL, true, nil)
	converted, err := converter.ConvertString(content)
	if err != nil {
		s.logger.Warn().Err(err).Msg("HTML to markdown conversion failed, using fallback")
		return StripHTMLTags(content), nil
	}

	converted = tidy(converted)
	if converted == "" {
		s.logger.Warn().
			Int("html_length", len(html)).
			Msg("HTML to markdown conversion produced empty output, applying fallback")
		return StripHTMLTags(content), nil
	}

	s.logger.Debug().
		Int("markdown_length", len(converted)).
		Msg("HTML to markdown conversion successful")

	return converted, nil
}

// TableToMarkdown renders the first table matching selector as a markdown table.
// Returns an error when no matching table has rows.
func (s *Service) TableToMarkdown(html string, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return "", fmt.Errorf("no table matches %q", selector)
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.Join(strings.Fields(cell.Text()), " ")
			cells = append(cells, strings.ReplaceAll(text, "|", "/"))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return "", fmt.Errorf("table %q has no rows", selector)
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	var b strings.Builder
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		b.WriteString("| " + strings.Join(r, " | ") + " |\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
		}
	}

	s.logger.Debug().
		Str("selector", selector).
		Int("rows", len(rows)).
		Int("columns", width).
		Msg("Extracted table")

	return b.String(), nil
}

// mainContent removes noise elements and returns the HTML of the main content node
func mainContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, selector := range noiseSelectors {
		doc.Find(selector).Remove()
	}

	for _, selector := range contentSelectors {
		selection := doc.Find(selector).First()
		if selection.Length() == 0 {
			continue
		}
		if out, err := selection.Html(); err == nil && strings.TrimSpace(selection.Text()) != "" {
			return out, nil
		}
	}

	return doc.Html()
}

func tidy(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = blankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// StripHTMLTags removes HTML tags and decodes a basic set of entities
func StripHTMLTags(htmlStr string) string {
	stripped := tagRe.ReplaceAllString(htmlStr, " ")
	cleaned := strings.Join(strings.Fields(stripped), " ")

	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&lt;", "<")
	cleaned = strings.ReplaceAll(cleaned, "&gt;", ">")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")

	return strings.TrimSpace(cleaned)
}
