// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"regexp"
)

// ScopeConstraints defines per-scope validation rules for a configuration key
type ScopeConstraints struct {
	Forbidden  bool     // If true, this key cannot be set in this scope
	EnumValues []string // Valid enum values for this scope (overrides global EnumValues if set)
	Pattern    string   // Regex pattern for this scope (overrides global Pattern if set)
}

// ConfigKeyDefinition defines metadata for a configuration key
type ConfigKeyDefinition struct {
	Key         string      // Configuration key (dot notation)
	Type        string      // "string", "bool", "enum", "int", "list"
	Default     interface{} // Default value
	Description string      // Help text

	// Global constraints (apply unless overridden by scope-specific constraints)
	EnumValues []string // Valid values for enum type (if Type="enum")
	Pattern    string   // Regex pattern for validation (if Type="string")

	// Per-scope constraints (optional - if nil, key is allowed in scope with global constraints)
	UserConstraints *ScopeConstraints // Constraints when setting in user config
	RepoConstraints *ScopeConstraints // Constraints when setting in repo config
}

// ConfigRegistry holds all known configuration keys with per-scope constraints.
//
// Constraint System:
//   - No constraints: Key can be set in any scope with same validation rules
//   - Forbidden constraint: Key cannot be set in the specified scope
//   - Scope-specific EnumValues: Different allowed values per scope
//   - Scope-specific Pattern: Different regex validation per scope
var ConfigRegistry = map[string]ConfigKeyDefinition{
	"use-tui": {
		Key:         "use-tui",
		Type:        "bool",
		Default:     true,
		Description: "Use TUI for interactive prompts",
	},

	"log-level": {
		Key:         "log-level",
		Type:        "enum",
		Default:     "debug",
		Description: "Log verbosity level",
		EnumValues:  []string{"disabled", "debug", "info", "warn", "error"},
	},

	"github-token": {
		Key:         "github-token",
		Type:        "string",
		Default:     "",
		Description: "GitHub personal access token for API access",
		RepoConstraints: &ScopeConstraints{
			Forbidden: true,
		},
	},

	"catalog.folder-name": {
		Key:         "catalog.folder-name",
		Type:        "string",
		Default:     ".addin-catalog",
		Description: "Name of the add-in catalog folder created under the home directory",
	},

	"catalog.share-name": {
		Key:         "catalog.share-name",
		Type:        "string",
		Default:     "OfficeAddins",
		Description: "Network share name for the catalog folder (Windows)",
		Pattern:     "^[A-Za-z0-9_$-]+$",
	},

	"certificates.folder": {
		Key:         "certificates.folder",
		Type:        "string",
		Default:     "certificates",
		Description: "Default folder for generated development certificates (relative to working directory)",
	},

	"certificates.days": {
		Key:         "certificates.days",
		Type:        "int",
		Default:     365,
		Description: "Validity period in days for generated certificates",
	},

	"certificates.key-size": {
		Key:         "certificates.key-size",
		Type:        "int",
		Default:     4096,
		Description: "RSA key size in bits for the server certificate",
	},

	"certificates.ca-common-name": {
		Key:         "certificates.ca-common-name",
		Type:        "string",
		Default:     "localhost-ca",
		Description: "Common name of the generated development CA",
	},

	"certificates.common-name": {
		Key:         "certificates.common-name",
		Type:        "string",
		Default:     "localhost",
		Description: "Common name of the generated server certificate",
	},

	"manifests": {
		Key:         "manifests",
		Type:        "list",
		Default:     []string{"manifest.xml"},
		Description: "Ordered manifest paths linked into the catalog during setup (relative to project root)",
		UserConstraints: &ScopeConstraints{
			Forbidden: true, // Manifest paths are project-specific
		},
	},
}

// GetKeyDefinition returns the definition for a key, or nil if not found
func GetKeyDefinition(key string) *ConfigKeyDefinition {
	if def, ok := ConfigRegistry[key]; ok {
		return &def
	}
	return nil
}

// constraintsFor selects the per-scope constraint block, nil when the
// key has none for that scope
func constraintsFor(def *ConfigKeyDefinition, scope ConfigScope) *ScopeConstraints {
	if scope == ScopeUser {
		return def.UserConstraints
	}
	return def.RepoConstraints
}

// ValidateKeyScope rejects keys their target scope forbids, with a hint
// pointing at the scope that accepts them
func ValidateKeyScope(key string, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	constraints := constraintsFor(def, scope)
	if constraints == nil || !constraints.Forbidden {
		return nil
	}

	if scope == ScopeUser {
		return fmt.Errorf(
			"key '%s' cannot be set in user config\n\n"+
				"Hint: Remove --global flag:\n"+
				"  office-addin config set %s <value>\n\n"+
				"This key must be set in project config: ./office-addin.yaml",
			key, key)
	}
	return fmt.Errorf(
		"key '%s' cannot be set in project config (sensitive setting)\n\n"+
			"Hint: Use --global flag:\n"+
			"  office-addin config set --global %s <value>\n\n"+
			"User config: ~/.config/office-addin/config.yaml\n"+
			"This setting must NOT be committed to version control.",
		key, key)
}

// ValidateValue checks a value against the key's type and constraints.
// Per-scope pattern and enum constraints override the global ones.
func ValidateValue(key string, value interface{}, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	constraints := constraintsFor(def, scope)

	switch def.Type {
	case "bool":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("key '%s' must be a boolean", key)
		}
		return nil
	case "int":
		if _, ok := value.(int); !ok {
			return fmt.Errorf("key '%s' must be an integer", key)
		}
		return nil
	case "string":
		return validateString(key, value, def, constraints)
	case "enum":
		return validateEnum(key, value, def, constraints)
	case "list":
		return validateList(key, value)
	}
	return nil
}

func validateString(key string, value interface{}, def *ConfigKeyDefinition, constraints *ScopeConstraints) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("key '%s' must be a string", key)
	}

	pattern := def.Pattern
	if constraints != nil && constraints.Pattern != "" {
		pattern = constraints.Pattern
	}
	if pattern == "" {
		return nil
	}

	matched, err := regexp.MatchString(pattern, str)
	if err != nil {
		return fmt.Errorf("invalid validation pattern for key '%s': %w", key, err)
	}
	if !matched {
		return fmt.Errorf("key '%s' value %q does not match required pattern %s", key, str, pattern)
	}
	return nil
}

func validateEnum(key string, value interface{}, def *ConfigKeyDefinition, constraints *ScopeConstraints) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("key '%s' must be a string", key)
	}

	enumValues := def.EnumValues
	if constraints != nil && len(constraints.EnumValues) > 0 {
		enumValues = constraints.EnumValues
	}

	for _, allowed := range enumValues {
		if str == allowed {
			return nil
		}
	}
	return fmt.Errorf("key '%s' must be one of %v, got %q", key, enumValues, str)
}

func validateList(key string, value interface{}) error {
	switch v := value.(type) {
	case []string:
		return nil
	case []interface{}:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("key '%s' must be a list of strings", key)
			}
		}
		return nil
	case string:
		// A single string is treated as a one-element list
		return nil
	default:
		return fmt.Errorf("key '%s' must be a list of strings", key)
	}
}
