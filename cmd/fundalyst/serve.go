package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Serves POST /api/analyze, POST /api/route, POST /api/documents/ask and GET /api/health.`,
	RunE:  runServe,
}

var (
	servePort int
	serveHost string
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Server port (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Server host (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	common.ApplyFlagOverrides(config, servePort, serveHost)
	common.InstallCrashHandler("")
	common.PrintBanner(config, logger)

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	srv := server.New(application)

	errChan := make(chan error, 1)
	go func() {
		defer common.RecoverWithCrashFile()
		errChan <- srv.Start()
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	select {
	case <-cmd.Context().Done():
		logger.Info().Msg("Interrupt signal received")
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
		return err
	}
	return nil
}
