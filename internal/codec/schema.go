package codec

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// shapeSchema is the minimum a payload must satisfy before normalization.
// Everything else is defaulted or dropped field by field.
const shapeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["rows", "cols", "grid"],
  "properties": {
    "rows": {"type": "number"},
    "cols": {"type": "number"},
    "grid": {"type": "array"}
  }
}`

const shapeSchemaURL = "cellpaint-state.json"

var (
	shapeOnce sync.Once
	shape     *jsonschema.Schema
	shapeErr  error
)

func compiledShape() (*jsonschema.Schema, error) {
	shapeOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(shapeSchemaURL, strings.NewReader(shapeSchema)); err != nil {
			shapeErr = fmt.Errorf("add schema: %w", err)
			return
		}
		shape, shapeErr = compiler.Compile(shapeSchemaURL)
		if shapeErr != nil {
			shapeErr = fmt.Errorf("compile schema: %w", shapeErr)
		}
	})
	return shape, shapeErr
}

// validateShape checks doc against shapeSchema and converts the first leaf
// failure into a DecodeError.
func validateShape(doc interface{}) error {
	schema, err := compiledShape()
	if err != nil {
		return &DecodeError{Reason: err.Error()}
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &DecodeError{Reason: err.Error()}
	}
	leaf := firstLeaf(ve)
	return &DecodeError{Path: pointerToPath(leaf.InstanceLocation), Reason: leaf.Message}
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// pointerToPath turns "/grid/0" into "grid.0".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
