package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildCutlistJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the provider as a structured output
// constraint and also use it locally to validate what comes back.
func BuildCutlistJSONSchema() map[string]any {
	edgeProp := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"apply":       map[string]any{"type": "boolean"},
			"edgeband_id": map[string]any{"type": "string"},
		},
		"required":             []string{"apply"},
		"additionalProperties": false,
	}

	partProps := map[string]any{
		"label": map[string]any{"type": "string"},
		"qty":   map[string]any{"type": "integer", "minimum": 1},
		"size": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"l": positiveMM(),
				"w": positiveMM(),
			},
			"required":             []string{"l", "w"},
			"additionalProperties": false,
		},
		"thickness_mm": positiveMM(),
		"material_id":  map[string]any{"type": "string"},
		"grain":        map[string]any{"type": "string", "enum": []string{"none", "along_L", "along_W"}},
		"group_id":     map[string]any{"type": "string"},
		"ops": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"edging": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"L1": edgeProp, "L2": edgeProp, "W1": edgeProp, "W2": edgeProp,
					},
					"additionalProperties": false,
				},
				"grooves": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"side":      map[string]any{"type": "string", "enum": []string{"L1", "L2", "W1", "W2"}},
							"offset_mm": positiveMM(),
							"depth_mm":  positiveMM(),
							"width_mm":  positiveMM(),
						},
						"required":             []string{"side"},
						"additionalProperties": false,
					},
				},
				"holes": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"pattern_id": map[string]any{"type": "string", "minLength": 1},
							"face":       map[string]any{"type": "string"},
							"notes":      map[string]any{"type": "string"},
						},
						"required":             []string{"pattern_id"},
						"additionalProperties": false,
					},
				},
				"custom_cnc_ops": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"op_type": map[string]any{"type": "string", "minLength": 1},
							"payload": map[string]any{"type": "string"},
							"notes":   map[string]any{"type": "string"},
						},
						"required":             []string{"op_type"},
						"additionalProperties": false,
					},
				},
			},
			"additionalProperties": false,
		},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"parts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           partProps,
					"required":             []string{"qty", "size"},
					"additionalProperties": false,
				},
			},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required":             []string{"parts"},
		"additionalProperties": false,
	}
}

func positiveMM() map[string]any {
	return map[string]any{
		"type":             "number",
		"exclusiveMinimum": 0.0,
	}
}

// ValidateJSONAgainstSchema checks a provider document against a schema map.
// Documents are a few kilobytes at most, so the schema is compiled per call
// rather than cached.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	enc, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cutlist.schema.json", bytes.NewReader(enc)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("cutlist.schema.json")
	if err != nil {
		return fmt.Errorf("compile cutlist schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("document does not match cutlist schema: %w", err)
	}
	return nil
}
