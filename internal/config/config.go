package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".specmatrix.yaml"

// AppConfig represents the contents of .specmatrix.yaml.
type AppConfig struct {
	Format      string `yaml:"format"`
	Theme       string `yaml:"theme"`
	SourceRoot  string `yaml:"source_root"`
	Interactive bool   `yaml:"interactive"`
	LogLevel    string `yaml:"log_level"`
	DetailLines int    `yaml:"detail_lines"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// Constants for default values.
const (
	DefaultFormat      = "auto"
	DefaultTheme       = "default"
	DefaultSourceRoot  = "."
	DefaultLogLevel    = "warn"
	DefaultDetailLines = 12
)

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		Format:      DefaultFormat,
		Theme:       DefaultTheme,
		SourceRoot:  DefaultSourceRoot,
		LogLevel:    DefaultLogLevel,
		DetailLines: DefaultDetailLines,
	}
}

// LoadConfig loads the configuration file. An explicit path must exist;
// otherwise the local and user config locations are searched and a missing
// file yields the defaults.
func LoadConfig(explicit string) (*AppConfig, error) {
	appCfg := Defaults()

	configPath := explicit
	if configPath == "" {
		configPath = getConfigPath()
		if configPath == "" {
			return appCfg, nil
		}
	}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}

	var yamlAppCfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &yamlAppCfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", configPath, err)
	}

	// Merge YAML settings onto the defaults; zero values keep the default.
	if yamlAppCfg.Format != "" {
		appCfg.Format = yamlAppCfg.Format
	}
	if yamlAppCfg.Theme != "" {
		appCfg.Theme = yamlAppCfg.Theme
	}
	if yamlAppCfg.SourceRoot != "" {
		appCfg.SourceRoot = yamlAppCfg.SourceRoot
	}
	appCfg.Interactive = yamlAppCfg.Interactive
	if yamlAppCfg.LogLevel != "" {
		appCfg.LogLevel = yamlAppCfg.LogLevel
	}
	if yamlAppCfg.DetailLines != 0 {
		appCfg.DetailLines = yamlAppCfg.DetailLines
	}
	appCfg.Path = configPath
	return appCfg, nil
}

// getConfigPath tries to find the .specmatrix.yaml configuration file.
// It checks local directory first, then the user config directory.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	// An empty path or "/" is not a usable config home.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "specmatrix", FileName)
	if _, err := os.Stat(xdgPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return xdgPath // let LoadConfig report the real error
		}
		return ""
	}
	return xdgPath
}
