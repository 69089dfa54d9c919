package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/fundalyst/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Route a question, run the selected agents and print the scorecard",
	Long: `Routes the query to the forensic, ratio and/or earnings-call agents, runs them
for the given ticker and prints each agent's report with the final scorecard.

Examples:
  fundalyst analyze --ticker TCS.NS "Give me a full score"
  fundalyst analyze --ticker NSE:INFY --agents ratio --output json "How has ROE moved?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeTicker string
	analyzeAgents []string
	analyzeOutput string
	analyzePDF    string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeTicker, "ticker", "t", "", "Ticker to analyze (e.g. TCS.NS, NSE:INFY)")
	analyzeCmd.Flags().StringSliceVarP(&analyzeAgents, "agents", "a", nil, "Run these agents instead of routing (forensic, ratio, concall)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "text", "Output format: text, json, yaml, markdown")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Also write a PDF report to this path")
	_ = analyzeCmd.MarkFlagRequired("ticker")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateOutput(analyzeOutput); err != nil {
		return err
	}

	kinds := make([]models.AgentKind, 0, len(analyzeAgents))
	for _, name := range analyzeAgents {
		kind, err := models.ParseAgentKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	query := "Give me a full score"
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		query = args[0]
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	analysis, err := application.AnalyzeWithAgents(cmd.Context(), query, analyzeTicker, kinds)
	if err != nil {
		return err
	}

	if err := writeAnalysis(cmd.OutOrStdout(), application.Reports, analysis, analyzeOutput); err != nil {
		return err
	}

	if analyzePDF != "" {
		data, err := application.Reports.PDF(analysis)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzePDF, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", analyzePDF, err)
		}
		logger.Info().Str("path", analyzePDF).Int("bytes", len(data)).Msg("PDF report written")
	}

	return nil
}
