package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about a PDF, text or markdown document",
	Long: `Indexes the document in memory and answers the question from the passages
closest to it. Nothing is persisted between runs.

Example:
  fundalyst ask --file annual-report.pdf "What did the auditor say about receivables?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var askFile string

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "Document to index (.pdf, .txt, .md)")
	_ = askCmd.MarkFlagRequired("file")
}

func runAsk(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	session, err := application.NewSession()
	if err != nil {
		return err
	}

	if err := session.IngestFile(cmd.Context(), askFile); err != nil {
		return err
	}

	answer, err := application.Ask(cmd.Context(), session, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
