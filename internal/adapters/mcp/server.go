// Package mcp exposes the scout service as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
)

// Implementation identity announced to MCP clients.
const (
	ServerName    = "scout"
	ServerVersion = "1.0.0"
)

// Dependencies are the read operations the tools call.
type Dependencies interface {
	Search(ctx context.Context, q model.SearchQuery) (service.SearchResponse, error)
	DetectArchetype(ctx context.Context, key model.RecordKey) (service.ArchetypeReport, error)
	FindPlayer(ctx context.Context, name string) (service.PlayerLookup, error)
}

// ToolInfo names a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server owns the MCP server and its tool registry.
type Server struct {
	mcp    *sdk.Server
	deps   Dependencies
	tools  []ToolInfo
	logger logger.Logger
}

// NewServer creates an MCP server with the scout tools registered.
func NewServer(deps Dependencies) *Server {
	s := &Server{
		mcp:    sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: ServerVersion}, nil),
		deps:   deps,
		logger: logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *sdk.Server {
	return s.mcp
}

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo {
	return append([]ToolInfo(nil), s.tools...)
}

// Handler serves the tools over streamable HTTP with plain JSON responses.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return s.mcp
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// Register mounts the MCP handler on mux at path.
func (s *Server) Register(_ context.Context, mux *http.ServeMux, path string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(path, s.Handler())
}

func addTool[T any](s *Server, tool *sdk.Tool, handler func(context.Context, *sdk.CallToolRequest, T) (*sdk.CallToolResult, any, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	sdk.AddTool(s.mcp, tool, handler)
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
