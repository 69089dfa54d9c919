package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/fundalyst/internal/models"
)

// Output formats
const (
	OutputText     = "text"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
	OutputMarkdown = "markdown"
)

// AnalysisRenderer renders an analysis as human-readable text
type AnalysisRenderer interface {
	Text(analysis *models.Analysis) string
	Markdown(analysis *models.Analysis) string
}

func validateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, OutputYAML, OutputMarkdown:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (expected text, json, yaml or markdown)", format)
}

func writeAnalysis(w io.Writer, renderer AnalysisRenderer, analysis *models.Analysis, format string) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, analysis)
	case OutputYAML:
		return writeYAML(w, analysis)
	case OutputMarkdown:
		_, err := io.WriteString(w, renderer.Markdown(analysis))
		return err
	default:
		_, err := io.WriteString(w, renderer.Text(analysis))
		return err
	}
}

func writeRoute(w io.Writer, decision models.RouteDecision, format string) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, decision)
	case OutputYAML:
		return writeYAML(w, decision)
	default:
		names := make([]string, len(decision.Agents))
		for i, kind := range decision.Agents {
			names[i] = kind.AgentName()
		}
		_, err := fmt.Fprintf(w, "Agents: %s\nReason: %s\n", strings.Join(names, ", "), decision.Reason)
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
