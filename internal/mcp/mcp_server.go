// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the anomalyplot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Anomaly Chart Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: annotate_chart ---
	s.AddTool(mcp.NewTool("annotate_chart",
		mcp.WithDescription("Render a performance dataset and return the labels placed over each anomaly, with the marked revision."),
		mcp.WithString("dataset_path", mcp.Description("Path to a JSON or YAML dataset file."), mcp.Required()),
		mcp.WithNumber("revision", mcp.Description("Revision to mark with a vertical line. Overrides the dataset's own revision.")),
		mcp.WithBoolean("clamp_upper", mcp.Description("Show the last revision for ticks past the end of the lookup.")),
	), h.handleAnnotateChart)

	// --- 2. Tool: closest_revision ---
	s.AddTool(mcp.NewTool("closest_revision",
		mcp.WithDescription("Find the lookup index whose revision is closest to the given revision."),
		mcp.WithString("dataset_path", mcp.Description("Path to a JSON or YAML dataset file."), mcp.Required()),
		mcp.WithNumber("revision", mcp.Description("Revision number to search for."), mcp.Required()),
	), h.handleClosestRevision)

	// --- 3. Tool: describe_anomalies ---
	s.AddTool(mcp.NewTool("describe_anomalies",
		mcp.WithDescription("List each anomaly with its revision, percent change and severity, without rendering."),
		mcp.WithString("dataset_path", mcp.Description("Path to a JSON or YAML dataset file."), mcp.Required()),
	), h.handleDescribeAnomalies)

	return s
}

// StartMCPServer serves the MCP tools over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
