package service

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sakif/shader-playground/internal/apperror"
)

// The serialized fields are opaque to the store, but the editor always writes
// JSON. These schemas only pin down the top-level shape so that a truncated or
// hand-edited payload is rejected before it reaches the database.
const (
	uniformsSchema = `{"type": ["array", "object"]}`

	shadersSchema = `{
		"oneOf": [
			{"type": "array", "items": {"type": "object"}},
			{"type": "object"}
		]
	}`

	audioSettingsSchema = `{"type": "object"}`
)

// payloadSchema validates one serialized JSON field.
type payloadSchema struct {
	field  string
	schema *gojsonschema.Schema
}

func mustSchema(field, src string) *payloadSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("service: compiling %s schema: %v", field, err))
	}
	return &payloadSchema{field: field, schema: s}
}

var (
	uniformsPayload      = mustSchema("uniforms", uniformsSchema)
	shadersPayload       = mustSchema("shaders", shadersSchema)
	audioSettingsPayload = mustSchema("audio_settings", audioSettingsSchema)
)

// check returns a validation error when doc is not JSON of the expected shape.
func (p *payloadSchema) check(doc string) error {
	result, err := p.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return apperror.ValidationFailed(p.field, fmt.Sprintf("%s must be valid JSON", p.field))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.Description())
		}
		return apperror.ValidationFailed(p.field,
			fmt.Sprintf("%s has the wrong shape: %s", p.field, strings.Join(msgs, "; ")))
	}
	return nil
}

// checkOptional validates doc when present. nil and "" are both accepted as "no value".
func (p *payloadSchema) checkOptional(doc *string) error {
	if doc == nil || strings.TrimSpace(*doc) == "" {
		return nil
	}
	return p.check(*doc)
}
