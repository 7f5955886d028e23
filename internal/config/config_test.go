package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"api_key": "key-123",
		"spreadsheet_id": "sheet-abc",
		"concurrency": 4,
		"audits_per_second": 0.5,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "sheet-abc", cfg.SpreadsheetID)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.InDelta(t, 0.5, cfg.AuditsPerSecond, 1e-9)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
spreadsheet_id: sheet-abc
source_sheet: pages
database_url: ./runs.db
report: markdown
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sheet-abc", cfg.SpreadsheetID)
	assert.Equal(t, "pages", cfg.SourceSheet)
	assert.Equal(t, "./runs.db", cfg.DatabaseURL)
	assert.Equal(t, ReportMarkdown, cfg.Report)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "spreadsheet_id: [unclosed")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "key-123")
	t.Setenv(EnvCredentials, "")
	t.Setenv(EnvSpreadsheetID, "sheet-abc")
	t.Setenv(EnvSourceSheet, "")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/psi")
	t.Setenv(EnvConcurrency, "8")
	t.Setenv(EnvAuditsPerSecond, "2.5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "sheet-abc", cfg.SpreadsheetID)
	assert.Equal(t, "postgres://localhost/psi", cfg.DatabaseURL)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.InDelta(t, 2.5, cfg.AuditsPerSecond, 1e-9)
}

func TestApplyEnv_ZeroOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvConcurrency, "0")
	t.Setenv(EnvAuditsPerSecond, "0")

	cfg := Config{APIKey: "file-key", Concurrency: 8, AuditsPerSecond: 2}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "file-key", cfg.APIKey, "empty variable leaves the field")
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Zero(t, cfg.AuditsPerSecond)
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"concurrency", EnvConcurrency, "many"},
		{"audits per second", EnvAuditsPerSecond, "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConcurrency, "")
			t.Setenv(EnvAuditsPerSecond, "")
			t.Setenv(tt.env, tt.value)

			_, err := FromEnv()
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.env, cfgErr.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	credentials := writeFile(t, "sa.json", `{}`)

	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name: "valid with api key",
			cfg:  Config{APIKey: "k", SpreadsheetID: "s"},
		},
		{
			name: "valid with credentials file",
			cfg:  Config{CredentialsFile: credentials, SpreadsheetID: "s", Report: ReportJSON},
		},
		{
			name:      "no credentials",
			cfg:       Config{SpreadsheetID: "s"},
			wantField: "api_key",
		},
		{
			name:      "no spreadsheet",
			cfg:       Config{APIKey: "k"},
			wantField: "spreadsheet_id",
		},
		{
			name:      "negative concurrency",
			cfg:       Config{APIKey: "k", SpreadsheetID: "s", Concurrency: -1},
			wantField: "concurrency",
		},
		{
			name:      "negative rate",
			cfg:       Config{APIKey: "k", SpreadsheetID: "s", AuditsPerSecond: -0.5},
			wantField: "audits_per_second",
		},
		{
			name:      "unknown report format",
			cfg:       Config{APIKey: "k", SpreadsheetID: "s", Report: "html"},
			wantField: "report",
		},
		{
			name:      "credentials file missing",
			cfg:       Config{CredentialsFile: "/nonexistent/sa.json", SpreadsheetID: "s"},
			wantField: "credentials_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		SpreadsheetID: "from-flags",
		Concurrency:   2,
	}
	defaults := Config{
		APIKey:        "from-env",
		SpreadsheetID: "from-env",
		SourceSheet:   "urls",
		Concurrency:   10,
		Report:        ReportText,
		Verbose:       true,
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "from-flags", result.SpreadsheetID, "set values win")
	assert.Equal(t, "from-env", result.APIKey, "empty values filled")
	assert.Equal(t, "urls", result.SourceSheet)
	assert.Equal(t, 2, result.Concurrency)
	assert.Equal(t, ReportText, result.Report)
	assert.True(t, result.Verbose)

	// original is unchanged
	assert.Empty(t, cfg.APIKey)
}

func TestGoogleOptions(t *testing.T) {
	withKey := Config{APIKey: "k"}
	assert.Len(t, withKey.GoogleOptions(), 1)

	withFile := Config{APIKey: "k", CredentialsFile: "sa.json"}
	assert.Len(t, withFile.GoogleOptions(), 1)
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Field: "spreadsheet_id", Message: "is required"}
	assert.Equal(t, "configuration error: spreadsheet_id is required", err.Error())

	err = &ConfigurationError{Message: "invalid configuration"}
	assert.Equal(t, "configuration error: invalid configuration", err.Error())
}
