package schema

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	rawMessageType  = reflect.TypeFor[json.RawMessage]()
	jsonUnmarshaler = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Decode validates data against the shape of T and returns the decoded value.
func Decode[T any](data []byte) (T, error) {
	return decode[T](data, "")
}

// DecodeList validates data as a JSON array of T. It fails on the first
// invalid element and reports the element index in the field path.
func DecodeList[T any](data []byte) ([]T, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		raw, perr := parse(data)
		if perr != nil {
			return nil, perr
		}
		return nil, fieldError("", "expected array, got %s", kindOf(raw))
	}
	if items == nil {
		return nil, fieldError("", "expected array, got null")
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := decode[T](item, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decode[T any](data []byte, path string) (T, error) {
	var out T

	raw, err := parse(data)
	if err != nil {
		return out, err
	}
	if err := checkShape(reflect.TypeFor[T](), raw, path); err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, fieldError(joinPath(path, typeErr.Field), "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return out, fieldError(path, "%v", err)
	}
	if reflect.TypeFor[T]().Kind() == reflect.Struct {
		if err := validate.Struct(&out); err != nil {
			return out, fromValidator(err, path)
		}
	}
	return out, nil
}

func parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fieldError("", "invalid JSON: %v", err)
	}
	return raw, nil
}

// checkShape walks t and raw in parallel, verifying presence and JSON kinds
// before the value is handed to encoding/json.
func checkShape(t reflect.Type, raw any, path string) error {
	if t == rawMessageType || t.Kind() == reflect.Interface {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		if raw == nil {
			return nil
		}
		return checkShape(t.Elem(), raw, path)
	}
	if raw == nil {
		return fieldError(path, "expected %s, got null", describe(t))
	}
	if isLeaf(t) {
		return checkLeaf(t, raw, path)
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fieldError(path, "expected object, got %s", kindOf(raw))
		}
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, optional := jsonField(f)
			if name == "" {
				continue
			}
			fieldPath := joinPath(path, name)
			v, present := obj[name]
			if !present {
				if optional || f.Type.Kind() == reflect.Pointer || f.Type == rawMessageType {
					continue
				}
				return fieldError(fieldPath, "is required")
			}
			if err := checkShape(f.Type, v, fieldPath); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		items, ok := raw.([]any)
		if !ok {
			return fieldError(path, "expected array, got %s", kindOf(raw))
		}
		for i, item := range items {
			if err := checkShape(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fieldError(path, "expected object, got %s", kindOf(raw))
		}
		for k, v := range obj {
			if err := checkShape(t.Elem(), v, joinPath(path, k)); err != nil {
				return err
			}
		}
	case reflect.String:
		if _, ok := raw.(string); !ok {
			return fieldError(path, "expected string, got %s", kindOf(raw))
		}
	case reflect.Bool:
		if _, ok := raw.(bool); !ok {
			return fieldError(path, "expected boolean, got %s", kindOf(raw))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := raw.(json.Number)
		if !ok {
			return fieldError(path, "expected integer, got %s", kindOf(raw))
		}
		if _, err := n.Int64(); err != nil {
			return fieldError(path, "expected integer, got %s", n)
		}
	case reflect.Float32, reflect.Float64:
		if _, ok := raw.(json.Number); !ok {
			return fieldError(path, "expected number, got %s", kindOf(raw))
		}
	}
	return nil
}

// isLeaf reports whether t decodes itself from a JSON string (dates, UUIDs).
func isLeaf(t reflect.Type) bool {
	if t.Kind() != reflect.Struct && t.Kind() != reflect.Array {
		return false
	}
	ptr := reflect.PointerTo(t)
	return ptr.Implements(jsonUnmarshaler) || ptr.Implements(textUnmarshaler)
}

func checkLeaf(t reflect.Type, raw any, path string) error {
	s, ok := raw.(string)
	if !ok {
		return fieldError(path, "expected string, got %s", kindOf(raw))
	}

	v := reflect.New(t).Interface()
	var err error
	if u, ok := v.(json.Unmarshaler); ok {
		quoted, _ := json.Marshal(s)
		err = u.UnmarshalJSON(quoted)
	} else {
		err = v.(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}
	if err != nil {
		return fieldError(path, "invalid value %q: %v", s, err)
	}
	return nil
}

func jsonField(f reflect.StructField) (name string, optional bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero")
}

func joinPath(prefix, field string) string {
	switch {
	case field == "":
		return prefix
	case prefix == "":
		return field
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

func kindOf(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

func describe(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "integer"
	}
}
