package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/dougs/pkg/schema"
)

type sampleInput struct {
	Name     string `json:"name" validate:"required"`
	Distance int    `json:"distance" validate:"gte=0"`
	Nested   struct {
		Email string `json:"email" validate:"omitempty,email"`
	} `json:"nested"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	valid := sampleInput{Name: "trip", Distance: 10}
	assert.NoError(t, schema.Struct(valid))

	err := schema.Struct(sampleInput{Distance: 10})
	requireValidationError(t, err, "name")

	err = schema.Struct(sampleInput{Name: "trip", Distance: -1})
	verr := requireValidationError(t, err, "distance")
	assert.Contains(t, verr.Message, "gte")

	bad := sampleInput{Name: "trip"}
	bad.Nested.Email = "nope"
	requireValidationError(t, schema.Struct(bad), "nested.email")
}
