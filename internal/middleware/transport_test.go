package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"xmcp/server/internal/jsonrpc"
)

type stubProcessor struct {
	result interface{}
	err    *jsonrpc.Error
}

func (s *stubProcessor) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return s.result, s.err
}

func postJSON(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, jsonrpc.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp jsonrpc.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return rec, resp
}

func TestTransport_Success(t *testing.T) {
	handler := Transport(&stubProcessor{result: map[string]string{"ok": "yes"}})

	rec, resp := postJSON(t, handler, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected rpc error: %+v", resp.Error)
	}
	if resp.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q", resp.JSONRPC)
	}
	if id, ok := resp.ID.(float64); !ok || id != 1 {
		t.Errorf("id = %v", resp.ID)
	}
}

func TestTransport_ProcessorError(t *testing.T) {
	handler := Transport(&stubProcessor{err: &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}})

	_, resp := postJSON(t, handler, `{"jsonrpc":"2.0","id":2,"method":"bogus"}`)

	if resp.Error == nil || resp.Error.Code != jsonrpc.MethodNotFound {
		t.Fatalf("error = %+v", resp.Error)
	}
	if resp.Result != nil {
		t.Errorf("result should be absent, got %v", resp.Result)
	}
}

func TestTransport_ParseError(t *testing.T) {
	handler := Transport(&stubProcessor{})

	_, resp := postJSON(t, handler, `{not json`)

	if resp.Error == nil || resp.Error.Code != jsonrpc.ParseError {
		t.Fatalf("error = %+v", resp.Error)
	}
}

func TestTransport_MethodNotAllowed(t *testing.T) {
	handler := Transport(&stubProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/v1/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_server_error") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
