package modules

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ValidateParams checks params against InputSchema and returns a validated
// shallow copy. Required fields must be present and non-empty; every
// declared property is checked for type and its constraint keywords.
// Validation stops at the first violation, before any network activity.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	var missing []string
	for _, key := range schema.Required {
		val, exists := params[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}

	for key, val := range params {
		prop, declared := schema.Properties[key]
		if !declared {
			// Extra params not in schema are passed through (lenient)
			continue
		}
		if val == nil {
			continue
		}
		if err := checkProperty(key, val, prop); err != nil {
			return nil, err
		}
	}

	return params, nil
}

func checkProperty(key string, val any, prop Property) error {
	switch prop.Type {
	case "string":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("parameter %q: expected string, got %T", key, val)
		}
		return checkString(key, s, prop)
	case "number", "integer":
		// JSON numbers arrive as float64
		n, ok := val.(float64)
		if !ok {
			return fmt.Errorf("parameter %q: expected number, got %T", key, val)
		}
		return checkNumber(key, n, prop)
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("parameter %q: expected boolean, got %T", key, val)
		}
	case "array":
		arr, ok := val.([]interface{})
		if !ok {
			return fmt.Errorf("parameter %q: expected array, got %T", key, val)
		}
		return checkArray(key, arr, prop)
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return fmt.Errorf("parameter %q: expected object, got %T", key, val)
		}
		// "" or unknown types: skip check (lenient)
	}
	return nil
}

func checkString(key, s string, prop Property) error {
	if prop.MinLength != nil && len(s) < *prop.MinLength {
		return fmt.Errorf("parameter %q: must be at least %d characters", key, *prop.MinLength)
	}
	if prop.MaxLength != nil && len(s) > *prop.MaxLength {
		return fmt.Errorf("parameter %q: must be at most %d characters", key, *prop.MaxLength)
	}
	if prop.Pattern != "" {
		re, err := regexp.Compile(prop.Pattern)
		if err != nil {
			return fmt.Errorf("parameter %q: invalid schema pattern %q", key, prop.Pattern)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("parameter %q: must match pattern %s", key, prop.Pattern)
		}
	}
	if len(prop.Enum) > 0 && !contains(prop.Enum, s) {
		return fmt.Errorf("parameter %q: invalid value %q (allowed: %s)", key, s, strings.Join(prop.Enum, ", "))
	}
	return nil
}

func checkNumber(key string, n float64, prop Property) error {
	if prop.Type == "integer" && n != math.Trunc(n) {
		return fmt.Errorf("parameter %q: must be an integer", key)
	}
	if prop.Minimum != nil && n < *prop.Minimum {
		return fmt.Errorf("parameter %q: must be at least %v", key, *prop.Minimum)
	}
	if prop.Maximum != nil && n > *prop.Maximum {
		return fmt.Errorf("parameter %q: must be at most %v", key, *prop.Maximum)
	}
	return nil
}

func checkArray(key string, arr []interface{}, prop Property) error {
	if prop.MinItems != nil && len(arr) < *prop.MinItems {
		return fmt.Errorf("parameter %q: must have at least %d item(s)", key, *prop.MinItems)
	}
	if prop.MaxItems != nil && len(arr) > *prop.MaxItems {
		return fmt.Errorf("parameter %q: must have at most %d item(s)", key, *prop.MaxItems)
	}
	if prop.Items == nil {
		return nil
	}
	for i, item := range arr {
		if err := checkProperty(fmt.Sprintf("%s[%d]", key, i), item, *prop.Items); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// findTool looks up a tool by name from a tool list.
func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
