package modules

// ToStringSlice converts []interface{} (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// OptString reads an optional string param, falling back to def.
func OptString(params map[string]any, key, def string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return def
}

// OptInt reads an optional numeric param, falling back to def.
// JSON numbers arrive as float64.
func OptInt(params map[string]any, key string, def int) int {
	if n, ok := params[key].(float64); ok {
		return int(n)
	}
	return def
}
