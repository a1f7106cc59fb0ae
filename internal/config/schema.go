package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaSource)
	})
	return schema, schemaErr
}

// ValidateDocument checks a raw configuration document against the embedded
// JSON Schema before it is decoded onto the defaults. YAML documents are
// normalised through JSON so both formats see the same value types.
func ValidateDocument(data []byte, format Format) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	switch format {
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		normalised, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("normalise yaml: %w", err)
		}
		if err := json.Unmarshal(normalised, &doc); err != nil {
			return fmt.Errorf("normalise yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	}
	return s.Validate(doc)
}
