package mcp

import (
	"xmcp/server/internal/jsonrpc"
	"xmcp/server/internal/modules"
)

// Re-export JSON-RPC types for use within this package
type Request = jsonrpc.Request
type Response = jsonrpc.Response
type Error = jsonrpc.Error

// Re-export JSON-RPC error codes
const (
	ParseError     = jsonrpc.ParseError
	InvalidRequest = jsonrpc.InvalidRequest
	MethodNotFound = jsonrpc.MethodNotFound
	InvalidParams  = jsonrpc.InvalidParams
	InternalError  = jsonrpc.InternalError
)

// MCP Protocol Types
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ToolsListResult struct {
	Tools []modules.Tool `json:"tools"`
}

type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Use modules types
type ToolCallResult = modules.ToolCallResult
type ContentBlock = modules.ContentBlock
