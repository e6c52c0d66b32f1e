package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		cliFlags   CliFlags
		envVars    map[string]string
		wantTheme  string
		wantSource string
	}{
		{
			name:       "defaults",
			wantTheme:  "default",
			wantSource: SourceDefault,
		},
		{
			name:       "file over default",
			file:       "theme: orca\n",
			wantTheme:  "orca",
			wantSource: SourceFile,
		},
		{
			name:       "env over file",
			file:       "theme: orca\n",
			envVars:    map[string]string{"SPECMATRIX_THEME": "mono"},
			wantTheme:  "mono",
			wantSource: SourceEnv,
		},
		{
			name:       "CLI over env",
			cliFlags:   CliFlags{Theme: "orca"},
			envVars:    map[string]string{"SPECMATRIX_THEME": "mono"},
			wantTheme:  "orca",
			wantSource: SourceCLI,
		},
		{
			name:       "NO_COLOR forces mono over CLI",
			cliFlags:   CliFlags{Theme: "orca"},
			envVars:    map[string]string{"NO_COLOR": "1"},
			wantTheme:  "mono",
			wantSource: SourceEnv,
		},
		{
			name:       "NO_COLOR=false is ignored",
			envVars:    map[string]string{"NO_COLOR": "false"},
			wantTheme:  "default",
			wantSource: SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, FileName), tt.file)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			resolved, err := ResolveConfig(tt.cliFlags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTheme, resolved.Theme)
			assert.Equal(t, tt.wantSource, resolved.ThemeSource)
		})
	}
}

func TestResolveConfig_FormatAndSourceRoot(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "format: json\nsource_root: /etc/serverspec\n")
	t.Setenv("SPECMATRIX_SOURCE_ROOT", "/opt/spec")

	resolved, err := ResolveConfig(CliFlags{Format: "llm"})
	require.NoError(t, err)
	assert.Equal(t, "llm", resolved.Format)
	assert.Equal(t, SourceCLI, resolved.FormatSource)
	assert.Equal(t, "/opt/spec", resolved.SourceRoot)
	assert.Equal(t, SourceEnv, resolved.SourceRootSource)
	assert.Equal(t, FileName, resolved.ConfigPath)
}

func TestResolveConfig_Interactive(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "interactive: true\n")

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, resolved.Interactive)
	assert.Equal(t, SourceFile, resolved.InteractiveSource)

	resolved, err = ResolveConfig(CliFlags{Interactive: false, InteractiveSet: true})
	require.NoError(t, err)
	assert.False(t, resolved.Interactive)
	assert.Equal(t, SourceCLI, resolved.InteractiveSource)
}

func TestResolveConfig_LogLevel(t *testing.T) {
	isolate(t)

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, resolved.LogLevel)
	assert.Equal(t, SourceDefault, resolved.LogLevelSource)

	t.Setenv("SPECMATRIX_DEBUG", "1")
	resolved, err = ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "debug", resolved.LogLevel)
	assert.Equal(t, SourceEnv, resolved.LogLevelSource)

	resolved, err = ResolveConfig(CliFlags{Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, SourceCLI, resolved.LogLevelSource)
}

func TestResolveConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		cliFlags CliFlags
		wantErr  string
	}{
		{name: "valid config", cliFlags: CliFlags{Format: "terminal", Theme: "orca"}},
		{name: "invalid format", cliFlags: CliFlags{Format: "html"}, wantErr: "invalid format"},
		{name: "invalid theme", cliFlags: CliFlags{Theme: "neon"}, wantErr: "invalid theme"},
		{name: "invalid log level", file: "log_level: loud\n", wantErr: "invalid log_level"},
		{name: "negative detail lines", file: "detail_lines: -2\n", wantErr: "detail_lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, FileName), tt.file)
			}
			_, err := ResolveConfig(tt.cliFlags)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
