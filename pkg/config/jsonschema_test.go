// SPDX-License-Identifier: Apache-2.0
package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerateJSONSchema(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	if len(schema) == 0 {
		t.Error("GenerateJSONSchema returned empty schema")
	}

	// Verify it's valid JSON
	var result map[string]interface{}
	if err := json.Unmarshal(schema, &result); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	// Verify $schema field
	schemaVersion, ok := result["$schema"].(string)
	if !ok {
		t.Error("$schema field missing or not a string")
	}
	if schemaVersion != "https://json-schema.org/draft/2020-12/schema" {
		t.Errorf("$schema = %s, want Draft 2020-12", schemaVersion)
	}

	// Verify title
	title, ok := result["title"].(string)
	if !ok || title == "" {
		t.Error("title field missing or empty")
	}

	// Verify properties exist
	properties, ok := result["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("properties field missing or not an object")
	}

	// Verify some top-level keys exist
	topLevelKeys := []string{"use-tui", "log-level", "catalog", "certificates", "manifests"}
	for _, key := range topLevelKeys {
		if _, exists := properties[key]; !exists {
			t.Errorf("Expected property '%s' not found in schema", key)
		}
	}
}

func TestGenerateJSONSchema_NestedProperties(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(schema, &result); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	properties := result["properties"].(map[string]interface{})

	// Verify catalog is an object
	catalog, ok := properties["catalog"].(map[string]interface{})
	if !ok {
		t.Fatal("catalog should be an object")
	}

	catalogProps, ok := catalog["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("catalog should have properties")
	}

	if _, exists := catalogProps["folder-name"]; !exists {
		t.Error("catalog.folder-name should exist")
	}
	if _, exists := catalogProps["share-name"]; !exists {
		t.Error("catalog.share-name should exist")
	}
}

func TestGenerateJSONSchema_BooleanType(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	json.Unmarshal(schema, &result)

	properties := result["properties"].(map[string]interface{})
	useTUI := properties["use-tui"].(map[string]interface{})

	// Check type
	if useTUI["type"] != "boolean" {
		t.Errorf("use-tui type = %v, want boolean", useTUI["type"])
	}

	// Check default
	if useTUI["default"] != true {
		t.Errorf("use-tui default = %v, want true", useTUI["default"])
	}
}

func TestGenerateJSONSchema_IntegerType(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	json.Unmarshal(schema, &result)

	properties := result["properties"].(map[string]interface{})
	certificates := properties["certificates"].(map[string]interface{})
	certProps := certificates["properties"].(map[string]interface{})
	days := certProps["days"].(map[string]interface{})

	if days["type"] != "integer" {
		t.Errorf("certificates.days type = %v, want integer", days["type"])
	}
}

func TestGenerateJSONSchema_ListType(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	json.Unmarshal(schema, &result)

	properties := result["properties"].(map[string]interface{})
	manifests := properties["manifests"].(map[string]interface{})

	if manifests["type"] != "array" {
		t.Errorf("manifests type = %v, want array", manifests["type"])
	}
}

func TestGenerateJSONSchema_EnumType(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	json.Unmarshal(schema, &result)

	properties := result["properties"].(map[string]interface{})
	logLevel := properties["log-level"].(map[string]interface{})

	// Check type
	if logLevel["type"] != "string" {
		t.Errorf("log-level type = %v, want string", logLevel["type"])
	}

	// Check enum values exist
	enumValues, ok := logLevel["enum"].([]interface{})
	if !ok {
		t.Fatal("log-level should have enum values")
	}

	if len(enumValues) != 5 {
		t.Errorf("log-level enum has %d values, want 5", len(enumValues))
	}
}

func TestGenerateJSONSchema_PatternValidation(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema failed: %v", err)
	}

	var result map[string]interface{}
	json.Unmarshal(schema, &result)

	// Navigate to catalog.share-name
	properties := result["properties"].(map[string]interface{})
	catalog := properties["catalog"].(map[string]interface{})
	catalogProps := catalog["properties"].(map[string]interface{})
	shareName := catalogProps["share-name"].(map[string]interface{})

	// Check pattern exists
	pattern, ok := shareName["pattern"].(string)
	if !ok || pattern == "" {
		t.Error("catalog.share-name should have a pattern")
	}
}

func TestGenerateJSONSchemaForScope_UserOnly(t *testing.T) {
	scope := ScopeUser
	schema, err := GenerateJSONSchemaForScope(&scope)
	if err != nil {
		t.Fatalf("GenerateJSONSchemaForScope failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(schema, &result); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	// Verify title mentions user
	title, ok := result["title"].(string)
	if !ok || !strings.Contains(title, "User") {
		t.Errorf("Expected 'User' in title, got: %s", title)
	}

	properties := result["properties"].(map[string]interface{})

	// Should have user-scope keys
	if _, exists := properties["use-tui"]; !exists {
		t.Error("use-tui should be in user schema")
	}
	if _, exists := properties["github-token"]; !exists {
		t.Error("github-token (user-only) should be in user schema")
	}

	// Should NOT have keys forbidden in user scope
	if _, exists := properties["manifests"]; exists {
		t.Error("manifests (project-only) should NOT be in user schema")
	}

	// Flexible keys remain available
	if _, exists := properties["catalog"]; !exists {
		t.Error("catalog (flexible) should be in user schema")
	}
}

func TestGenerateJSONSchemaForScope_RepoOnly(t *testing.T) {
	scope := ScopeRepo
	schema, err := GenerateJSONSchemaForScope(&scope)
	if err != nil {
		t.Fatalf("GenerateJSONSchemaForScope failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(schema, &result); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	// Verify title mentions the project scope
	title, ok := result["title"].(string)
	if !ok || !strings.Contains(title, "Project") {
		t.Errorf("Expected 'Project' in title, got: %s", title)
	}

	properties := result["properties"].(map[string]interface{})

	// Should have project-scope keys
	if _, exists := properties["manifests"]; !exists {
		t.Error("manifests (project-scope) should be in project schema")
	}

	// Flexible keys remain available
	if _, exists := properties["use-tui"]; !exists {
		t.Error("use-tui (flexible) should be in project schema")
	}

	// Should NOT have restricted user-only keys
	if _, exists := properties["github-token"]; exists {
		t.Error("github-token (user-only) should NOT be in project schema")
	}
}

func TestGenerateJSONSchemaForScope_AllKeys(t *testing.T) {
	// Passing nil should include all keys
	schema, err := GenerateJSONSchemaForScope(nil)
	if err != nil {
		t.Fatalf("GenerateJSONSchemaForScope failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(schema, &result); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	properties := result["properties"].(map[string]interface{})

	// Should have both user and project keys
	if _, exists := properties["github-token"]; !exists {
		t.Error("github-token should be in full schema")
	}
	if _, exists := properties["manifests"]; !exists {
		t.Error("manifests should be in full schema")
	}
}
