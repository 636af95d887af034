package report

// Str reads a string field from a generic payload, tolerating missing keys
// and non-string values.
func Str(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// StrList reads a list-of-strings field from a generic payload, skipping
// non-string elements.
func StrList(m map[string]interface{}, key string) []string {
	if m == nil {
		return nil
	}
	items, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Obj reads a nested object field from a generic payload.
func Obj(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	if o, ok := m[key].(map[string]interface{}); ok {
		return o
	}
	return nil
}
