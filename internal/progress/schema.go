package progress

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const saveSchemaURL = "blockquest://save.schema.json"

const saveSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Block Quest save",
  "type": "object",
  "properties": {
    "levelIndex": {"type": "integer", "minimum": 0}
  }
}`

var saveSchema = jsonschema.MustCompileString(saveSchemaURL, saveSchemaJSON)

// Validate checks that data is a JSON save object.
func Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after save object", ErrInvalidSave)
	}
	if err := saveSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	return nil
}
