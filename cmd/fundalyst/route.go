package main

import (
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route [query]",
	Short: "Show which agents a question would be routed to",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoute,
}

var routeOutput string

func init() {
	routeCmd.Flags().StringVarP(&routeOutput, "output", "o", "text", "Output format: text, json, yaml")
}

func runRoute(cmd *cobra.Command, args []string) error {
	if err := validateOutput(routeOutput); err != nil {
		return err
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	decision := application.Route(cmd.Context(), args[0])
	return writeRoute(cmd.OutOrStdout(), decision, routeOutput)
}
