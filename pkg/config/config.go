// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// GitHub repository for self-updates
	GitHubRepo = "CLAV88/office-addin"
	GitHubAPI  = "https://api.github.com"

	// Configuration
	EnvPrefix        = "OFFICE_ADDIN" // Environment variable prefix for Viper
	ConfigFileName   = "config"       // Config file name for XDG config dir (without extension)
	LocalConfigFile  = "office-addin" // Config file name for current directory (without extension)
	ConfigType       = "yaml"         // Config file type
	DefaultConfigExt = ".yaml"        // Default config file extension
)

// Paths holds all XDG-compliant directory paths
type Paths struct {
	DataDir   string
	CacheDir  string
	ConfigDir string
}

var (
	// GlobalPaths is the global paths instance
	GlobalPaths *Paths
)

func init() {
	GlobalPaths = GetPaths()
}

// GetPaths returns XDG-compliant directory paths
func GetPaths() *Paths {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(mustHomeDir(), ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(mustHomeDir(), ".cache")
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(mustHomeDir(), ".config")
	}

	return &Paths{
		DataDir:   filepath.Join(dataHome, "office-addin"),
		CacheDir:  filepath.Join(cacheHome, "office-addin"),
		ConfigDir: filepath.Join(configHome, "office-addin"),
	}
}

func mustHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
		os.Exit(1)
	}
	return home
}

// IsRepoMode returns true when an office-addin.yaml exists in the current
// working directory, meaning the CLI is operating within an add-in project.
func IsRepoMode() bool {
	_, err := os.Stat(filepath.Join(".", LocalConfigFile+DefaultConfigExt))
	return err == nil
}

// InitDirs creates all necessary directories
func InitDirs() error {
	dirs := []string{
		GlobalPaths.ConfigDir,
		GlobalPaths.DataDir,
		GlobalPaths.CacheDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetGitHubToken returns the GitHub token (respects full config precedence)
// Priority: ENV:OFFICE_ADDIN_GITHUB_TOKEN > user config > defaults
func GetGitHubToken() string {
	return viper.GetString("github-token")
}
