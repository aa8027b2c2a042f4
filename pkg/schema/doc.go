// Package schema decodes and validates the JSON entities returned by the
// Dougs API.
//
// Every response body goes through Decode or DecodeList before reaching the
// caller. Decoding is strict about shape and lenient about extras:
//
//   - every non-pointer field must be present and of the right JSON kind;
//   - pointer fields are nullable and may be absent;
//   - json.RawMessage fields and fields tagged `omitempty` are optional;
//   - unknown fields are ignored;
//   - `validate` tags (email, oneof, ...) are enforced through
//     github.com/go-playground/validator/v10.
//
// Failures are reported as *ValidationError naming the offending field path
// (for example "company.brandName" or "[3].id"). Lists fail on their first
// invalid element.
//
//	user, err := schema.Decode[schema.User](body)
//	if errors.Is(err, schema.ErrValidation) {
//		// unexpected response shape
//	}
//
// Struct applies the same validator to caller-built input structs.
package schema
