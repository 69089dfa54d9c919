// Package templates provides embedded TOML prompt templates with user override support.
// Templates are loaded with resolution order:
// 1. User override: templatesDir/{name}.toml
// 2. Embedded default: internal/templates/{name}.toml
package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

//go:embed *.toml
var fs embed.FS

// Template names
const (
	Router        = "router"
	Forensic      = "forensic"
	ForensicReact = "forensic_react"
	Ratio         = "ratio"
	Concall       = "concall"
	DocumentQA    = "document_qa"
)

// Template represents a loaded prompt template
type Template struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Prompt      string `toml:"prompt"`

	parsed *template.Template
}

// GetTemplate loads a template by name with resolution order:
// 1. User override: templatesDir/{name}.toml
// 2. Embedded default: internal/templates/{name}.toml
func GetTemplate(name string, templatesDir string) (*Template, error) {
	// Try user override first
	if templatesDir != "" {
		userPath := filepath.Join(templatesDir, name+".toml")
		if data, err := os.ReadFile(userPath); err == nil {
			return parseTemplate(name, data)
		}
	}

	// Fall back to embedded default
	data, err := fs.ReadFile(name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found (checked user override and embedded)", name)
	}
	return parseTemplate(name, data)
}

// MustGet loads an embedded template and panics if it is missing or invalid.
// Intended for package-level defaults and tests.
func MustGet(name string) *Template {
	t, err := GetTemplate(name, "")
	if err != nil {
		panic(err)
	}
	return t
}

// ListEmbeddedTemplates returns names of all embedded templates
func ListEmbeddedTemplates() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
		}
	}
	return names, nil
}

// Render executes the prompt with data. Missing keys are an error.
func (t *Template) Render(data any) (string, error) {
	var b strings.Builder
	if err := t.parsed.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render template '%s': %w", t.Name, err)
	}
	return b.String(), nil
}

func parseTemplate(name string, data []byte) (*Template, error) {
	var t Template
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}
	if strings.TrimSpace(t.Prompt) == "" {
		return nil, fmt.Errorf("template '%s' has an empty prompt", name)
	}
	if t.Name == "" {
		t.Name = name
	}

	parsed, err := template.New(name).Option("missingkey=error").Parse(t.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt of template '%s': %w", name, err)
	}
	t.parsed = parsed
	return &t, nil
}
