// Package config handles configuration loading and merging for specmatrix.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --source-root, --interactive, --verbose)
//  2. Environment variables (SPECMATRIX_FORMAT, SPECMATRIX_THEME, SPECMATRIX_SOURCE_ROOT,
//     NO_COLOR, SPECMATRIX_DEBUG)
//  3. YAML config file (.specmatrix.yaml in the working directory or
//     ~/.config/specmatrix/.specmatrix.yaml, or the file named by --config)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Key Configuration Options
//
//   - Format: auto, terminal, llm or json
//   - Theme: default, orca or mono
//   - SourceRoot: directory that spec file paths in a report are relative to
//   - DetailLines: cap on snippet lines shown per failure (0 = whole block)
//
// # Environment Variables
//
//   - NO_COLOR: any value other than a false boolean forces the mono theme
//   - SPECMATRIX_DEBUG: set to any non-empty value to enable debug logging
package config
