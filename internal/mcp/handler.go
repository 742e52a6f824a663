package mcp

import (
	"context"
	"encoding/json"

	"xmcp/server/internal/jsonrpc"
	"xmcp/server/internal/modules"
)

const (
	protocolVersion = "2025-03-26"
	serverName      = "x-mcp"
	serverVersion   = "1.0.0"
)

// Handler routes JSON-RPC requests to MCP method handlers.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport middleware.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "tools/list":
		return h.handleToolsList(), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}
}

func (h *Handler) handleToolsList() *ToolsListResult {
	return &ToolsListResult{Tools: modules.AllTools()}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "name is required"}
	}

	result, err := modules.Run(ctx, params.Name, params.Arguments)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: err.Error()}
	}
	return result, nil
}
