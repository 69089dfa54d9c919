package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/fundalyst/internal/app"
	"github.com/ternarybob/fundalyst/internal/common"
)

func main() {
	// Load configuration
	configPath := os.Getenv("FUNDALYST_CONFIG")
	if configPath == "" {
		configPath = "fundalyst.toml"
	}
	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = append(paths, configPath)
	}

	lookup, err := common.NewEnvLookup(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read env file: %v\n", err)
		os.Exit(1)
	}

	config, err := common.LoadFromFiles(lookup, paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs go to file only
	config.Logging.Output = []string{"file"}
	config.Logging.Level = "warn"
	logger := common.SetupLogger(config)

	application, err := app.New(config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"fundalyst",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createRouteQueryTool(), handleRouteQuery(application, logger))
	mcpServer.AddTool(createAnalyzeTickerTool(), handleAnalyzeTicker(application, application.Reports, logger))
	mcpServer.AddTool(createAskDocumentTool(), handleAskDocument(func() (documentSession, error) {
		session, err := application.NewSession()
		if err != nil {
			return nil, err
		}
		return session, nil
	}, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		os.Exit(1)
	}
}
