// Package schema provides JSON schema generation for runtime settings.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, &errors.SchemaError{Type: typeName(v), Err: err}
	}

	return jsonBytes, nil
}

// SettingsSchema returns the JSON schema of the settings file.
func SettingsSchema() ([]byte, error) {
	return GenerateSchema(&entities.Settings{})
}

func typeName(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%T", v)
}
