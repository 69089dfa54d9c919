package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/models"
)

const defaultQuery = "Give me a full score"

type queryRouter interface {
	Route(ctx context.Context, query string) models.RouteDecision
}

type analyzer interface {
	AnalyzeWithAgents(ctx context.Context, query, ticker string, kinds []models.AgentKind) (*models.Analysis, error)
}

type markdownRenderer interface {
	Markdown(analysis *models.Analysis) string
}

type documentSession interface {
	IngestFile(ctx context.Context, path string) error
	Ask(ctx context.Context, question string) (string, error)
}

// handleRouteQuery implements the route_query tool
func handleRouteQuery(router queryRouter, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("Error: query parameter is required"), nil
		}

		decision := router.Route(ctx, query)
		return mcp.NewToolResultText(formatRoute(query, decision)), nil
	}
}

// handleAnalyzeTicker implements the analyze_ticker tool
func handleAnalyzeTicker(a analyzer, reports markdownRenderer, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || strings.TrimSpace(ticker) == "" {
			return mcp.NewToolResultError("Error: ticker parameter is required"), nil
		}

		query := request.GetString("query", defaultQuery)
		if strings.TrimSpace(query) == "" {
			query = defaultQuery
		}

		var kinds []models.AgentKind
		for _, name := range request.GetStringSlice("agents", nil) {
			kind, err := models.ParseAgentKind(name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
			}
			kinds = append(kinds, kind)
		}

		analysis, err := a.AnalyzeWithAgents(ctx, query, ticker, kinds)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
			return mcp.NewToolResultError(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		if request.GetString("format", "markdown") == "json" {
			data, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Encoding error: %v", err)), nil
			}
			return mcp.NewToolResultText(string(data)), nil
		}

		return mcp.NewToolResultText(reports.Markdown(analysis)), nil
	}
}

// handleAskDocument implements the ask_document tool
func handleAskDocument(newSession func() (documentSession, error), logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return mcp.NewToolResultError("Error: path parameter is required"), nil
		}
		question, err := request.RequireString("question")
		if err != nil || strings.TrimSpace(question) == "" {
			return mcp.NewToolResultError("Error: question parameter is required"), nil
		}

		session, err := newSession()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
		if err := session.IngestFile(ctx, path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to ingest document")
			return mcp.NewToolResultError(fmt.Sprintf("Ingest error: %v", err)), nil
		}

		answer, err := session.Ask(ctx, question)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Document question failed")
			return mcp.NewToolResultError(fmt.Sprintf("Answer error: %v", err)), nil
		}
		return mcp.NewToolResultText(answer), nil
	}
}
