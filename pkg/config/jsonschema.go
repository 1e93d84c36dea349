// SPDX-License-Identifier: Apache-2.0
package config

import (
	"encoding/json"
	"strings"
)

// JSONSchema is a JSON Schema Draft 2020-12 document built from the
// key registry, suitable for editor validation of config files
type JSONSchema struct {
	Schema               string                 `json:"$schema"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Type                 string                 `json:"type"`
	Properties           map[string]interface{} `json:"properties"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

// JSONSchemaProperty describes a single key or nested section
type JSONSchemaProperty struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Default     interface{}            `json:"default,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Items       *JSONSchemaProperty    `json:"items,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

// GenerateJSONSchema generates a schema covering every registered key
func GenerateJSONSchema() ([]byte, error) {
	return GenerateJSONSchemaForScope(nil)
}

// GenerateJSONSchemaForScope generates a schema for one config file
// scope, leaving out keys that scope forbids. nil includes everything.
func GenerateJSONSchemaForScope(scope *ConfigScope) ([]byte, error) {
	title := "Office Add-in CLI Configuration"
	description := "Configuration schema for the office-addin CLI tool"
	switch {
	case scope == nil:
	case *scope == ScopeUser:
		title = "Office Add-in CLI User Configuration"
		description = "User-specific configuration (personal preferences)"
	default:
		title = "Office Add-in CLI Project Configuration"
		description = "Project-specific configuration (committed settings)"
	}

	schema := JSONSchema{
		Schema:               "https://json-schema.org/draft/2020-12/schema",
		Title:                title,
		Description:          description,
		Type:                 "object",
		Properties:           make(map[string]interface{}),
		AdditionalProperties: false,
	}

	for _, def := range ConfigRegistry {
		if scope != nil && forbiddenInScope(def, *scope) {
			continue
		}
		insertProperty(schema.Properties, def)
	}

	return json.MarshalIndent(schema, "", "  ")
}

func forbiddenInScope(def ConfigKeyDefinition, scope ConfigScope) bool {
	constraints := def.RepoConstraints
	if scope == ScopeUser {
		constraints = def.UserConstraints
	}
	return constraints != nil && constraints.Forbidden
}

// insertProperty places a key under its dot-notation path, creating
// intermediate object properties as needed
func insertProperty(props map[string]interface{}, def ConfigKeyDefinition) {
	parts := strings.Split(def.Key, ".")

	current := props
	for _, part := range parts[:len(parts)-1] {
		section, ok := current[part].(*JSONSchemaProperty)
		if !ok {
			section = &JSONSchemaProperty{
				Type:       "object",
				Properties: make(map[string]interface{}),
			}
			current[part] = section
		}
		current = section.Properties
	}

	current[parts[len(parts)-1]] = buildProperty(def)
}

func buildProperty(def ConfigKeyDefinition) *JSONSchemaProperty {
	prop := &JSONSchemaProperty{
		Description: def.Description,
		Default:     def.Default,
	}

	switch def.Type {
	case "bool":
		prop.Type = "boolean"
	case "int":
		prop.Type = "integer"
	case "string":
		prop.Type = "string"
		prop.Pattern = def.Pattern
	case "enum":
		prop.Type = "string"
		prop.Enum = def.EnumValues
	case "list":
		prop.Type = "array"
		prop.Items = &JSONSchemaProperty{Type: "string"}
	}

	return prop
}
