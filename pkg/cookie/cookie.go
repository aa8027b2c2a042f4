package cookie

import "strings"

// Parse flattens the given Set-Cookie header values into a single map of
// attribute name to raw value. Later keys overwrite earlier ones.
func Parse(headers []string) map[string]string {
	attrs := make(map[string]string)
	for _, header := range headers {
		for segment := range strings.SplitSeq(header, ";") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			name, value, _ := strings.Cut(segment, "=")
			attrs[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return attrs
}

// Value returns the named attribute from the given headers and reports
// whether it was present with a non-empty value.
func Value(headers []string, name string) (string, bool) {
	v, ok := Parse(headers)[name]
	return v, ok && v != ""
}
