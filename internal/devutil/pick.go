// Package devutil has small debugging helpers.
package devutil

import "encoding/json"

// Pick round-trips any struct or map through JSON and keeps only the
// requested keys. Handy for logging a sample of a remote payload without
// dumping the whole thing.
func Pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out
}
