package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"xmcp/server/internal/jsonrpc"
	"xmcp/server/internal/observability"
)

// RequestProcessor processes JSON-RPC requests.
// Implemented by the MCP handler.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)
}

type transport struct {
	processor RequestProcessor
}

// Transport creates an http.Handler carrying JSON-RPC 2.0 over POST
// (MCP streamable HTTP, single-response mode). It delegates request
// processing to the given RequestProcessor.
func Transport(processor RequestProcessor) http.Handler {
	return &transport{processor: processor}
}

func (t *transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		resp := jsonrpc.Response{JSONRPC: "2.0", Error: &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"}}
		json.NewEncoder(w).Encode(resp)
		return
	}

	log.Printf("Received request: method=%s id=%v request_id=%s", req.Method, req.ID, GetRequestID(r.Context()))

	result, rpcErr := t.processor.ProcessRequest(r.Context(), &req)

	var resp jsonrpc.Response
	if rpcErr != nil {
		resp = jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	} else {
		resp = jsonrpc.Response{JSONRPC: "2.0", ID: req.ID, Result: result}
	}

	// Notifications (no id) still get a body per streamable HTTP; clients ignore it.
	json.NewEncoder(w).Encode(resp)
	observability.LogRequest(req.Method, r.URL.Path, http.StatusOK, time.Since(start).Milliseconds())
}
