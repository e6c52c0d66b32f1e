package config

import (
	"fmt"
	"os"
	"strconv"
)

// Priority Order (highest to lowest):
//  1. CLI Flags
//  2. Environment Variables
//  3. .specmatrix.yaml Configuration File
//  4. Defaults
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds the values of command-line flags. String flags are unset
// when empty; bool flags carry an explicit Set marker.
type CliFlags struct {
	ConfigPath string
	Format     string
	Theme      string
	SourceRoot string

	Interactive    bool
	InteractiveSet bool
	Verbose        bool
}

// ResolvedConfig holds the final resolved configuration after applying all priority rules.
type ResolvedConfig struct {
	Format      string
	Theme       string
	SourceRoot  string
	Interactive bool
	LogLevel    string
	DetailLines int
	NoColor     bool

	// Resolution metadata (for debugging)
	ConfigPath        string
	FormatSource      string
	ThemeSource       string
	SourceRootSource  string
	InteractiveSource string
	LogLevelSource    string
}

// ResolveConfig resolves configuration from all sources with explicit priority order.
func ResolveConfig(cliFlags CliFlags) (*ResolvedConfig, error) {
	appCfg, err := LoadConfig(cliFlags.ConfigPath)
	if err != nil {
		return nil, err
	}
	defaults := Defaults()

	resolved := &ResolvedConfig{
		Interactive: appCfg.Interactive,
		LogLevel:    appCfg.LogLevel,
		DetailLines: appCfg.DetailLines,
		ConfigPath:  appCfg.Path,
	}

	resolved.Format, resolved.FormatSource = resolveString(cliFlags.Format, "SPECMATRIX_FORMAT", appCfg.Format, defaults.Format)
	resolved.Theme, resolved.ThemeSource = resolveString(cliFlags.Theme, "SPECMATRIX_THEME", appCfg.Theme, defaults.Theme)
	resolved.SourceRoot, resolved.SourceRootSource = resolveString(cliFlags.SourceRoot, "SPECMATRIX_SOURCE_ROOT", appCfg.SourceRoot, defaults.SourceRoot)

	// Interactive: CLI > file > default
	resolved.InteractiveSource = fileOrDefault(appCfg.Interactive != defaults.Interactive)
	if cliFlags.InteractiveSet {
		resolved.Interactive = cliFlags.Interactive
		resolved.InteractiveSource = SourceCLI
	}

	// LogLevel: CLI --verbose > SPECMATRIX_DEBUG > file > default
	resolved.LogLevelSource = fileOrDefault(appCfg.LogLevel != defaults.LogLevel)
	switch {
	case cliFlags.Verbose:
		resolved.LogLevel = "debug"
		resolved.LogLevelSource = SourceCLI
	case os.Getenv("SPECMATRIX_DEBUG") != "":
		resolved.LogLevel = "debug"
		resolved.LogLevelSource = SourceEnv
	}

	// NO_COLOR overrides whatever theme was chosen.
	if noColor := getEnvBool("NO_COLOR"); noColor != nil && *noColor {
		resolved.NoColor = true
		resolved.Theme = "mono"
		resolved.ThemeSource = SourceEnv
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

// resolveString applies CLI > env > file > default to a string setting.
// The file value is reported as "default" when it equals the default.
func resolveString(cli, envKey, file, def string) (string, string) {
	if cli != "" {
		return cli, SourceCLI
	}
	if v := os.Getenv(envKey); v != "" {
		return v, SourceEnv
	}
	if file != "" && file != def {
		return file, SourceFile
	}
	return def, SourceDefault
}

func fileOrDefault(fromFile bool) string {
	if fromFile {
		return SourceFile
	}
	return SourceDefault
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set. A set value that is not a boolean counts as
// true, matching the NO_COLOR convention.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				b = true
			}
			return &b
		}
	}
	return nil
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	validFormat := map[string]bool{"auto": true, "terminal": true, "llm": true, "json": true}
	if !validFormat[cfg.Format] {
		return fmt.Errorf("invalid format value: %s (must be: auto, terminal, llm, json)", cfg.Format)
	}

	validTheme := map[string]bool{"default": true, "orca": true, "mono": true}
	if !validTheme[cfg.Theme] {
		return fmt.Errorf("invalid theme value: %s (must be: default, orca, mono)", cfg.Theme)
	}

	validLevel := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevel[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level value: %s (must be: debug, info, warn, error)", cfg.LogLevel)
	}

	if cfg.DetailLines < 0 {
		return fmt.Errorf("detail_lines must not be negative, got: %d", cfg.DetailLines)
	}
	return nil
}
