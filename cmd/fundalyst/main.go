// -----------------------------------------------------------------------
// Fundalyst CLI - routes financial questions to insight agents and scores them
// -----------------------------------------------------------------------

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/app"
	"github.com/ternarybob/fundalyst/internal/common"
)

var (
	// Command-line flags
	configFiles []string
	envFiles    []string
	logLevel    string
	quiet       bool

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "fundalyst",
	Short: "LLM-assisted fundamental analysis for listed companies",
	Long: `Fundalyst routes a natural-language question about a company to forensic,
ratio and earnings-call agents, then combines their reports into a weighted
scorecard with a written summary.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Dotenv files consulted for credentials (process environment wins)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")

	rootCmd.AddCommand(analyzeCmd, routeCmd, askCmd, serveCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration: defaults -> file1 -> file2 -> ... -> env -> flags
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("fundalyst.toml"); err == nil {
			configFiles = append(configFiles, "fundalyst.toml")
		} else if _, err := os.Stat("deployments/local/fundalyst.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/fundalyst.toml")
		}
	}

	lookup, err := common.NewEnvLookup(envFiles...)
	if err != nil {
		return err
	}

	config, err = common.LoadFromFiles(lookup, configFiles...)
	if err != nil {
		return err
	}

	switch {
	case logLevel != "":
		config.Logging.Level = logLevel
	case quiet:
		config.Logging.Level = "warn"
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.SetupLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("router_model", config.LLM.RouterModel).
		Str("analysis_model", config.LLM.AnalysisModel).
		Str("summary_model", config.LLM.SummaryModel).
		Msg("Resolved configuration (sanitized)")

	return nil
}

// newApp builds the application; missing credentials stop the command here
func newApp() (*app.App, error) {
	application, err := app.New(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
