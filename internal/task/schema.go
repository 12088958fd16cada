package task

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// fileSchema describes the tasks.json format. Validation is only used
// by the doctor command; normal loads keep the historical behavior of
// silently recovering from malformed content.
const fileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["id", "description", "status", "createdAt", "updatedAt"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "description": {"type": "string", "minLength": 1},
      "status": {"type": "string", "enum": ["todo", "in-progress", "done"]},
      "createdAt": {"type": "string", "pattern": "^[0-9]{2}/[0-9]{2}/[0-9]{4} [0-9]{2}:[0-9]{2}:[0-9]{2}$"},
      "updatedAt": {"type": "string", "pattern": "^[0-9]{2}/[0-9]{2}/[0-9]{4} [0-9]{2}:[0-9]{2}:[0-9]{2}$"}
    }
  }
}`

// ValidateFile checks an existing tasks.json against the schema. It is
// the loud counterpart to the silent recovery in load: corrupt storage
// is reported instead of being absorbed. A missing file is not an
// error; an empty store is a valid state.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read tasks file: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("tasks file is not valid JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(fileSchema)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("tasks file does not match schema: %w", err)
	}
	return nil
}
