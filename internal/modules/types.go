package modules

import "context"

// Module is a group of MCP tools backed by one upstream API.
type Module interface {
	Name() string
	Description() string

	Tools() []Tool
	ExecuteTool(ctx context.Context, name string, params map[string]any) (*ToolCallResult, error)
}

// ToolAnnotations describes the tool's behavior hints per the MCP spec.
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
}

func boolPtr(v bool) *bool { return &v }

// AnnotateReadOnly marks lookup/search/list tools: no side effects,
// safe to repeat.
var AnnotateReadOnly = &ToolAnnotations{
	ReadOnlyHint:    boolPtr(true),
	DestructiveHint: boolPtr(false),
	IdempotentHint:  boolPtr(true),
}

// Tool is an MCP tool definition.
type Tool struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema InputSchema      `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// InputSchema defines the input parameters for a tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single property in the input schema. The constraint
// fields mirror their JSON Schema keywords and are enforced by
// ValidateParams before a handler runs.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Items       *Property `json:"items,omitempty"`

	Enum      []string `json:"enum,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`
}

// IntPtr builds constraint values for Property literals.
func IntPtr(v int) *int { return &v }

// FloatPtr builds numeric bounds for Property literals.
func FloatPtr(v float64) *float64 { return &v }

// ToolCallResult is the payload returned to the MCP client.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one display segment of a result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
