package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronCoach", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("IronCoach fitness coaching server. Query athlete body composition measurements, compute body fat from raw caliper or tape readings, and review workout session history."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetMeasurements, Handler: h.getMeasurements},
		server.ServerTool{Tool: toolComputeBodyComposition, Handler: h.computeBodyComposition},
		server.ServerTool{Tool: toolGetSessionHistory, Handler: h.getSessionHistory},
		server.ServerTool{Tool: toolGetCompletedSets, Handler: h.getCompletedSets},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
