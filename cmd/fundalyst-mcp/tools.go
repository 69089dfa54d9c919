package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createRouteQueryTool returns the route_query tool definition
func createRouteQueryTool() mcp.Tool {
	return mcp.NewTool("route_query",
		mcp.WithDescription("Classify a financial question into the analysis agents that would answer it (FORENSIC, RATIO, CONCALL)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural-language question, e.g. 'Any red flags in the cash flow?'"),
		),
	)
}

// createAnalyzeTickerTool returns the analyze_ticker tool definition
func createAnalyzeTickerTool() mcp.Tool {
	return mcp.NewTool("analyze_ticker",
		mcp.WithDescription("Run the routed analysis agents for a listed company and return the scorecard report"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker, e.g. TCS.NS, NSE:INFY or a bare code on the default exchange"),
		),
		mcp.WithString("query",
			mcp.Description("Question used for routing (default: 'Give me a full score')"),
		),
		mcp.WithArray("agents",
			mcp.WithStringItems(),
			mcp.Description("Skip routing and run these agents: forensic, ratio, concall"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: markdown (default) or json"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// createAskDocumentTool returns the ask_document tool definition
func createAskDocumentTool() mcp.Tool {
	return mcp.NewTool("ask_document",
		mcp.WithDescription("Answer a question about a local PDF, text or markdown file (annual report, transcript)"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the document on the server's filesystem"),
		),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question to answer from the document"),
		),
	)
}
