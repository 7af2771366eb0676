// Package mcpserver exposes the assistant over the Model Context
// Protocol so MCP-aware clients can drive conversations and invoke
// individual capabilities directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Turner runs one full conversational turn. The vaya.Assistant satisfies it.
type Turner interface {
	Ask(ctx context.Context, sessionID, query string) (*domain.TurnResult, error)
}

// Server wraps the assistant and exposes it as an MCP server.
type Server struct {
	assistant Turner
	invoker   ports.Invoker
	names     []string
	mcpServer *server.MCPServer
}

// NewServer builds an MCP server exposing one "ask" tool for full turns
// plus one tool per registered capability name for direct invocation.
func NewServer(assistant Turner, invoker ports.Invoker, capabilityNames []string, version string) *Server {
	s := &Server{
		assistant: assistant,
		invoker:   invoker,
		names:     capabilityNames,
		mcpServer: server.NewMCPServer("vaya-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

type askResponse struct {
	Response string   `json:"response"`
	Status   string   `json:"plan_status"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) registerTools() {
	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Run one conversational turn against the travel assistant."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The user's request in natural language")),
		mcp.WithString("session_id", mcp.Description("Session identifier for cross-turn memory; omit for a one-shot turn")),
	)
	s.mcpServer.AddTool(askTool, s.handleAsk)

	for _, name := range s.names {
		tool := mcp.NewTool(name,
			mcp.WithDescription(fmt.Sprintf("Invoke the %s capability directly and return its semantic patch.", name)),
			mcp.WithString("args", mcp.Description("JSON object of capability arguments")),
		)
		s.mcpServer.AddTool(tool, s.capabilityHandler(name))
	}
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}
	sessionID := request.GetString("session_id", "mcp")

	result, err := s.assistant.Ask(ctx, sessionID, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("turn failed: %v", err)), nil
	}

	payload, _ := json.Marshal(askResponse{
		Response: result.Response,
		Status:   string(result.Status),
		Errors:   result.Errors,
	})
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) capabilityHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw := request.GetString("args", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("args must be a JSON object: %v", err)), nil
			}
		}

		result, err := s.invoker.Invoke(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, _ := json.Marshal(map[string]any{
			"patch":   result.Patch,
			"snippet": result.Snippet,
		})
		return mcp.NewToolResultText(string(payload)), nil
	}
}
