package glances

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mozilla-ai/glanced/internal/errors"
)

// Minimal top-level schemas. Nested content is deliberately untyped: the
// upstream API does not guarantee a stable field set, so only the shape the
// gateway relies on is validated.
var (
	objectSchema = gojsonschema.NewStringLoader(`{"type": "object"}`)
	arraySchema  = gojsonschema.NewStringLoader(`{"type": "array"}`)
)

// Normalize parses a raw response body into a generic structured value.
// It fails with a malformed_response FetchError if the body is empty, is not
// valid JSON, or does not match the category's known top-level shape.
// Content is passed through unmodified; no semantic validation is performed.
func Normalize(category Category, body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.NewMalformedResponse("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, errors.NewMalformedResponse(fmt.Sprintf("invalid JSON: %v", err))
	}

	// Reject trailing garbage after the first JSON value (partially-parsed fragments).
	if dec.More() {
		return nil, errors.NewMalformedResponse("trailing data after JSON value")
	}

	if err := validateShape(category, value); err != nil {
		return nil, err
	}

	return value, nil
}

// validateShape checks the top-level JSON shape for categories with a known
// expected shape; shapeAny categories pass through.
func validateShape(category Category, value any) error {
	var schema gojsonschema.JSONLoader

	switch shapeOf(category) {
	case shapeObject:
		schema = objectSchema
	case shapeArray:
		schema = arraySchema
	default:
		return nil
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(value))
	if err != nil {
		return errors.NewMalformedResponse(fmt.Sprintf("shape validation failed: %v", err))
	}
	if !result.Valid() {
		return errors.NewMalformedResponse(
			fmt.Sprintf("category '%s' expects a JSON %s at the top level", category, shapeOf(category)),
		)
	}

	return nil
}
