package modules

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"xmcp/server/internal/middleware"
	"xmcp/server/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

var (
	registry = make(map[string]Module)
	order    []string
)

// RegisterModule adds a module to the registry. Registration happens once
// at startup; the registry is read-only afterwards.
func RegisterModule(m Module) {
	if _, exists := registry[m.Name()]; !exists {
		order = append(order, m.Name())
	}
	registry[m.Name()] = m
}

// GetModule returns a module by name.
func GetModule(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// ListModules returns all registered module names in registration order.
func ListModules() []string {
	names := make([]string, len(order))
	copy(names, order)
	return names
}

// AllTools returns every tool of every registered module, in registration
// order. This is what tools/list exposes.
func AllTools() []Tool {
	var tools []Tool
	for _, name := range order {
		tools = append(tools, registry[name].Tools()...)
	}
	return tools
}

// moduleForTool finds the module that owns a tool name.
func moduleForTool(toolName string) (Module, Tool, bool) {
	for _, name := range order {
		m := registry[name]
		if t, found := findTool(m.Tools(), toolName); found {
			return m, t, true
		}
	}
	return nil, Tool{}, false
}

// =============================================================================
// Tool Execution
// =============================================================================

// toolTimeout is the maximum duration for a single tool execution.
const toolTimeout = 30 * time.Second

var (
	tracer = otel.Tracer("xmcp/server/internal/modules")
	meter  = otel.Meter("xmcp/server/internal/modules")

	toolCalls, _    = meter.Int64Counter("mcp.tool.calls", metric.WithDescription("Tool executions by tool and status"))
	toolDuration, _ = meter.Float64Histogram("mcp.tool.duration", metric.WithUnit("ms"), metric.WithDescription("Tool execution duration"))
)

// Run executes a tool by name: schema validation, execution timeout,
// and conversion of every failure into an IsError result. Errors never
// propagate past this boundary.
func Run(ctx context.Context, toolName string, params map[string]any) (*ToolCallResult, error) {
	start := time.Now()

	m, tool, ok := moduleForTool(toolName)
	if !ok {
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", toolName)}},
			IsError: true,
		}, nil
	}

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}
	params = validated

	// External API calls must not hang past the tool deadline
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "mcp.tool/"+toolName,
		trace.WithAttributes(
			attribute.String("mcp.module", m.Name()),
			attribute.String("mcp.tool", toolName),
		),
	)
	defer span.End()

	result, err := m.ExecuteTool(ctx, toolName, params)
	durationMs := time.Since(start).Milliseconds()
	requestID := middleware.GetRequestID(ctx)

	if err != nil {
		errMsg := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			errMsg = fmt.Sprintf("Request to %s timed out after %s. The external service did not respond in time.", m.Name(), toolTimeout)
		}
		span.RecordError(err)
		recordToolCall(ctx, toolName, "error", durationMs)
		observability.LogToolCall(requestID, m.Name(), toolName, durationMs, "error", errMsg)
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: errMsg}},
			IsError: true,
		}, nil
	}

	status := "success"
	if result.IsError {
		status = "error"
	}
	recordToolCall(ctx, toolName, status, durationMs)
	errMsg := ""
	if result.IsError && len(result.Content) > 0 {
		errMsg = result.Content[0].Text
	}
	observability.LogToolCall(requestID, m.Name(), toolName, durationMs, status, errMsg)
	return result, nil
}

func recordToolCall(ctx context.Context, toolName, status string, durationMs int64) {
	attrs := metric.WithAttributes(
		attribute.String("mcp.tool", toolName),
		attribute.String("status", status),
	)
	toolCalls.Add(ctx, 1, attrs)
	toolDuration.Record(ctx, float64(durationMs), attrs)
}
