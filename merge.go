package dougs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/dougs/pkg/schema"
)

// MergeDocument deep-merges patch into base and returns a new document.
// Nested objects are merged key by key; any other patch value, arrays and
// nil included, replaces the base value. Neither input is modified.
func MergeDocument(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}

	for k, v := range patch {
		if src, ok := asObject(v); ok {
			if dst, ok := asObject(out[k]); ok {
				out[k] = MergeDocument(dst, src)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case OperationPatch:
		return m, true
	default:
		return nil, false
	}
}

// decodeDocument parses a JSON object keeping numbers as json.Number so
// they round-trip unchanged.
func decodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &schema.ValidationError{Message: fmt.Sprintf("expected object: %v", err)}
	}
	if doc == nil {
		return nil, &schema.ValidationError{Message: "expected object, got null"}
	}
	return doc, nil
}
