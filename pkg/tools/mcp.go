package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/xylogen-go/internal/logger"
)

// NewMCPServer exposes every tool of m over the Model Context Protocol.
func NewMCPServer(m *ToolManager, version string) *server.MCPServer {
	s := server.NewMCPServer("xylogen", version, server.WithToolCapabilities(false))
	for _, t := range m.List() {
		s.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Schema()), mcpHandler(t))
	}
	return s
}

// mcpHandler adapts a Tool to an MCP tool handler. Tool failures are
// reported as error results, not protocol errors.
func mcpHandler(t Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
		}

		out, err := t.Run(ctx, string(args))
		if err != nil {
			logger.L.Error("tool failed", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
