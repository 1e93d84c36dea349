// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigScope selects which config file an operation targets
type ConfigScope int

const (
	ScopeRepo ConfigScope = iota // ./office-addin.yaml, committed with the project
	ScopeUser                    // ~/.config/office-addin/config.yaml, personal preferences
)

// ConfigValue is a resolved key with the layer it came from
type ConfigValue struct {
	Key    string
	Value  interface{}
	Source string
}

func getConfigPath(scope ConfigScope) string {
	if scope == ScopeUser {
		return filepath.Join(GlobalPaths.ConfigDir, ConfigFileName+DefaultConfigExt)
	}
	return filepath.Join(".", LocalConfigFile+DefaultConfigExt)
}

func getScopeName(scope ConfigScope) string {
	if scope == ScopeUser {
		return "user"
	}
	return "project"
}

// SetConfigValue validates and writes a key into the scope's config file.
// The value string is coerced to bool, int or float when it parses as one.
func SetConfigValue(key, valueStr string, scope ConfigScope) error {
	if err := ValidateKeyScope(key, scope); err != nil {
		return err
	}

	value := parseValue(valueStr)
	if err := ValidateValue(key, value, scope); err != nil {
		return err
	}

	configPath := getConfigPath(scope)

	// Isolated viper instance so the merged global config is untouched
	v := viper.New()
	v.SetConfigType(ConfigType)
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig() // file may not exist yet

	v.Set(key, value)

	return writeScopedConfig(v, configPath)
}

// writeScopedConfig creates the file when missing, otherwise rewrites it
func writeScopedConfig(v *viper.Viper, configPath string) error {
	err := v.SafeWriteConfigAs(configPath)
	if err == nil {
		return nil
	}

	var exists viper.ConfigFileAlreadyExistsError
	if errors.As(err, &exists) {
		if err := v.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to create config: %w", err)
}

// GetConfigValue resolves a key through the merged config layers
func GetConfigValue(key string) (*ConfigValue, error) {
	if !viper.IsSet(key) {
		return nil, fmt.Errorf("configuration key not found: %s", key)
	}

	return &ConfigValue{
		Key:    key,
		Value:  viper.Get(key),
		Source: getConfigSource(key),
	}, nil
}

// UnsetConfigValue removes a key from the scope's config file
func UnsetConfigValue(key string, scope ConfigScope) error {
	configPath := getConfigPath(scope)
	scopeName := getScopeName(scope)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%s config file does not exist: %s", scopeName, configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(ConfigType)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if !v.IsSet(key) {
		return fmt.Errorf("key '%s' not found in %s config", key, scopeName)
	}

	// Viper cannot delete keys, so rebuild the file without this one
	settings := v.AllSettings()
	if err := deleteNestedKey(settings, key); err != nil {
		return err
	}

	out := viper.New()
	out.SetConfigFile(configPath)
	out.SetConfigType(ConfigType)
	for k, val := range settings {
		out.Set(k, val)
	}

	if err := out.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ListConfigValues returns every resolved key with its source, sorted
func ListConfigValues() ([]ConfigValue, error) {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		return []ConfigValue{}, nil
	}

	keys := flattenKeys(settings, "")
	sort.Strings(keys)

	values := make([]ConfigValue, 0, len(keys))
	for _, key := range keys {
		values = append(values, ConfigValue{
			Key:    key,
			Value:  viper.Get(key),
			Source: getConfigSource(key),
		})
	}

	return values, nil
}

func parseValue(valueStr string) interface{} {
	switch strings.ToLower(valueStr) {
	case "true", "yes", "on", "enable", "enabled":
		return true
	case "false", "no", "off", "disable", "disabled":
		return false
	}
	if i, err := strconv.Atoi(valueStr); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return f
	}
	return valueStr
}

// keyToEnvVar maps a config key to its environment override, e.g.
// certificates.key-size to OFFICE_ADDIN_CERTIFICATES_KEY_SIZE
func keyToEnvVar(key string) string {
	envKey := strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, "-", "_"))
	return strings.ReplaceAll(envKey, ".", "_")
}

func getConfigSource(key string) string {
	envKey := keyToEnvVar(key)
	if os.Getenv(envKey) != "" {
		return fmt.Sprintf("from ENV: %s", envKey)
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		if strings.Contains(configFile, LocalConfigFile) {
			return fmt.Sprintf("from ./%s%s", LocalConfigFile, DefaultConfigExt)
		}
		if strings.Contains(configFile, GlobalPaths.ConfigDir) {
			return fmt.Sprintf("from ~/.config/office-addin/%s%s", ConfigFileName, DefaultConfigExt)
		}
		return fmt.Sprintf("from %s", configFile)
	}

	return "default"
}

// deleteNestedKey removes a dot-notation key from a nested settings map
func deleteNestedKey(m map[string]interface{}, key string) error {
	parts := strings.Split(key, ".")

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return fmt.Errorf("key not found: %s", key)
		}
		current = next
	}

	last := parts[len(parts)-1]
	if _, ok := current[last]; !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	delete(current, last)

	return nil
}

// flattenKeys expands a nested settings map into dot-notation keys
func flattenKeys(m map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range m {
		fullKey := k
		if prefix != "" {
			fullKey = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, fullKey)...)
		} else {
			keys = append(keys, fullKey)
		}
	}
	return keys
}
