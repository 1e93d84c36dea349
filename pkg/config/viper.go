// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// InitViper sets defaults and environment binding. Precedence from
// highest to lowest: ENV, project config, user config, defaults.
func InitViper() {
	viper.SetConfigType(ConfigType)

	viper.SetDefault("use-tui", true)
	viper.SetDefault("log-level", "debug")
	viper.SetDefault("github-token", "") // sensitive, never defaulted
	viper.SetDefault("catalog.folder-name", ".addin-catalog")
	viper.SetDefault("catalog.share-name", "OfficeAddins")
	viper.SetDefault("certificates.folder", "certificates")
	viper.SetDefault("certificates.days", 365)
	viper.SetDefault("certificates.key-size", 4096)
	viper.SetDefault("certificates.ca-common-name", "localhost-ca")
	viper.SetDefault("certificates.common-name", "localhost")
	viper.SetDefault("manifests", []string{"manifest.xml"})

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// LoadConfig reads the user config then merges the project config over
// it. Missing files are fine; unreadable or invalid ones are not.
func LoadConfig() error {
	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(GlobalPaths.ConfigDir)

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read user config file: %w", err)
		}
	} else {
		warnMisplacedKeys("user")
	}

	viper.SetConfigName(LocalConfigFile)
	viper.AddConfigPath(".")

	if err := viper.MergeInConfig(); err != nil {
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read local config file: %w", err)
		}
		return nil
	}

	// The project file is committed, so forbidden keys there are an
	// error rather than a debug note
	if err := validateConfigFile(ScopeRepo); err != nil {
		return err
	}
	warnMisplacedKeys("repo")

	return nil
}

// GetUseTUI returns the use-tui configuration value
func GetUseTUI() bool {
	return viper.GetBool("use-tui")
}

// GetLogLevel returns the log-level configuration value
func GetLogLevel() string {
	return viper.GetString("log-level")
}

// GetCatalogFolderName returns the catalog.folder-name configuration value
func GetCatalogFolderName() string {
	return viper.GetString("catalog.folder-name")
}

// GetCatalogShareName returns the catalog.share-name configuration value
func GetCatalogShareName() string {
	return viper.GetString("catalog.share-name")
}

// GetCertificatesFolder returns the certificates.folder configuration value
func GetCertificatesFolder() string {
	return viper.GetString("certificates.folder")
}

// GetCertificatesDays returns the certificates.days configuration value
func GetCertificatesDays() int {
	return viper.GetInt("certificates.days")
}

// GetCertificatesKeySize returns the certificates.key-size configuration value
func GetCertificatesKeySize() int {
	return viper.GetInt("certificates.key-size")
}

// GetCACommonName returns the certificates.ca-common-name configuration value
func GetCACommonName() string {
	return viper.GetString("certificates.ca-common-name")
}

// GetServerCommonName returns the certificates.common-name configuration value
func GetServerCommonName() string {
	return viper.GetString("certificates.common-name")
}

// GetManifests returns the manifests configuration value, the ordered
// list of manifest paths linked into the catalog during setup.
func GetManifests() []string {
	return viper.GetStringSlice("manifests")
}

// readScopedFile loads one config file in isolation, returning nil when
// the file does not exist
func readScopedFile(scope ConfigScope) (*viper.Viper, string, error) {
	configPath := getConfigPath(scope)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, configPath, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(ConfigType)
	if err := v.ReadInConfig(); err != nil {
		return nil, configPath, err
	}
	return v, configPath, nil
}

// validateConfigFile rejects scope-forbidden keys and invalid values in
// the scope's config file
func validateConfigFile(scope ConfigScope) error {
	v, configPath, err := readScopedFile(scope)
	if err != nil {
		return fmt.Errorf("failed to read config file for validation: %w", err)
	}
	if v == nil {
		return nil
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		if err := ValidateKeyScope(key, scope); err != nil {
			return fmt.Errorf("invalid key in config file %s: %w", configPath, err)
		}
		if err := ValidateValue(key, v.Get(key), scope); err != nil {
			return fmt.Errorf("invalid value in config file %s: %w", configPath, err)
		}
	}

	return nil
}

// warnMisplacedKeys logs a debug note for keys sitting in the opposite
// scope from where they typically belong. Placement is not enforced
// here since precedence already resolves conflicts; only keys a scope
// outright forbids are rejected, by validateConfigFile.
func warnMisplacedKeys(scopeName string) {
	scope := ScopeRepo
	if scopeName == "user" {
		scope = ScopeUser
	}

	v, _, err := readScopedFile(scope)
	if err != nil || v == nil {
		return
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		def := GetKeyDefinition(key)
		if def == nil {
			continue
		}

		home, ok := typicalScope(def)
		if !ok || home == scope {
			continue
		}

		log.Debugf("Key '%s' in %s config (typically in %s config: %s)",
			key, scopeName, getScopeName(home), getConfigPath(home))
	}
}

// typicalScope reports which scope a key belongs in, derived from the
// scope that forbids it
func typicalScope(def *ConfigKeyDefinition) (ConfigScope, bool) {
	if def.RepoConstraints != nil && def.RepoConstraints.Forbidden {
		return ScopeUser, true
	}
	if def.UserConstraints != nil && def.UserConstraints.Forbidden {
		return ScopeRepo, true
	}
	return 0, false
}

// BindFlags binds the persistent root flags into Viper
func BindFlags(flags *pflag.FlagSet) error {
	for _, name := range []string{"use-tui", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
