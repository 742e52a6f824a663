package x

import (
	"bytes"
	"encoding/json"

	"xmcp/server/internal/modules"
)

// errorResult builds a single-segment error payload.
func errorResult(message string) *modules.ToolCallResult {
	return &modules.ToolCallResult{
		Content: []modules.ContentBlock{{Type: "text", Text: message}},
		IsError: true,
	}
}

// successResult builds the dual-format payload: formatted summary first,
// then the pagination token segment when one exists, then the raw JSON
// dump. The order is fixed.
func successResult(formatted string, raw []byte, nextToken string) *modules.ToolCallResult {
	segments := []modules.ContentBlock{{Type: "text", Text: formatted}}
	if nextToken != "" {
		segments = append(segments, modules.ContentBlock{
			Type: "text",
			Text: "\n---\nNext page token: " + nextToken,
		})
	}
	segments = append(segments, modules.ContentBlock{
		Type: "text",
		Text: "\n---\nRaw JSON:\n" + prettyJSON(raw),
	})
	return &modules.ToolCallResult{Content: segments}
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
