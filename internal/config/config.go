// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey          = "GOOGLEAPIS_AUTH_KEY"
	EnvCredentials     = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvSpreadsheetID   = "SPREADSHEET_ID"
	EnvSourceSheet     = "PSI_SOURCE_SHEET"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvConcurrency     = "PSI_CONCURRENCY"
	EnvAuditsPerSecond = "PSI_AUDITS_PER_SECOND"
)

// Report formats.
const (
	ReportText     = "text"
	ReportMarkdown = "markdown"
	ReportJSON     = "json"
)

// Config represents the recorder configuration. It can be loaded from a JSON
// or YAML file, the environment, and CLI flags, in increasing precedence.
type Config struct {
	// Google access
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`                   // PageSpeed/Sheets API key
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"` // Service account JSON

	// Sheets
	SpreadsheetID string `json:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty" validate:"required"`
	SourceSheet   string `json:"source_sheet,omitempty" yaml:"source_sheet,omitempty"`

	// Behavior
	DatabaseURL     string  `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	Concurrency     int     `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0"`
	AuditsPerSecond float64 `json:"audits_per_second,omitempty" yaml:"audits_per_second,omitempty" validate:"gte=0"`
	Report          string  `json:"report,omitempty" yaml:"report,omitempty" validate:"omitempty,oneof=text markdown json"`
	Verbose         bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the values used when nothing else sets a field.
func Defaults() Config {
	return Config{
		SourceSheet: "urls",
		Report:      ReportText,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset
// variables leave their field empty.
func FromEnv() (Config, error) {
	var cfg Config
	err := cfg.ApplyEnv()
	return cfg, err
}

// ApplyEnv overrides fields whose environment variable is set. Numeric
// variables override even when set to 0, so PSI_CONCURRENCY=0 lifts a limit
// from the config file.
func (c *Config) ApplyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.APIKey, EnvAPIKey)
	setString(&c.CredentialsFile, EnvCredentials)
	setString(&c.SpreadsheetID, EnvSpreadsheetID)
	setString(&c.SourceSheet, EnvSourceSheet)
	setString(&c.DatabaseURL, EnvDatabaseURL)

	if v, ok := os.LookupEnv(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Field: EnvConcurrency, Message: "must be an integer", Cause: err}
		}
		c.Concurrency = n
	}

	if v, ok := os.LookupEnv(EnvAuditsPerSecond); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigurationError{Field: EnvAuditsPerSecond, Message: "must be a number", Cause: err}
		}
		c.AuditsPerSecond = f
	}

	return nil
}

// Validate checks that required settings are present and values are in
// range. Every failure is a *ConfigurationError.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.CredentialsFile == "" {
		return &ConfigurationError{
			Field:   "api_key",
			Message: fmt.Sprintf("is required (set %s or %s)", EnvAPIKey, EnvCredentials),
		}
	}

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return &ConfigurationError{Message: "invalid configuration", Cause: err}
	}

	// Validate file paths exist (if specified)
	if c.CredentialsFile != "" {
		if _, err := os.Stat(c.CredentialsFile); os.IsNotExist(err) {
			return &ConfigurationError{Field: "credentials_file", Message: "not found: " + c.CredentialsFile, Cause: err}
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Zero numbers count as empty; use ApplyEnv to override with an explicit 0.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.CredentialsFile == "" {
		result.CredentialsFile = defaults.CredentialsFile
	}
	if result.SpreadsheetID == "" {
		result.SpreadsheetID = defaults.SpreadsheetID
	}
	if result.SourceSheet == "" {
		result.SourceSheet = defaults.SourceSheet
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Report == "" {
		result.Report = defaults.Report
	}

	// Numeric fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.AuditsPerSecond == 0 {
		result.AuditsPerSecond = defaults.AuditsPerSecond
	}

	// Bool fields: cannot distinguish unset from false, so only true propagates
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// GoogleOptions returns the client options authenticating Google API calls.
// A credentials file wins over an API key.
func (c *Config) GoogleOptions() []option.ClientOption {
	if c.CredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
	}
	return []option.ClientOption{option.WithAPIKey(c.APIKey)}
}

func structValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldError(fe validator.FieldError) *ConfigurationError {
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gte":
		msg = "must be at least " + fe.Param()
	case "oneof":
		msg = "must be one of: " + fe.Param()
	default:
		msg = "failed " + fe.Tag() + " validation"
	}
	return &ConfigurationError{Field: fe.Field(), Message: msg, Cause: fe}
}
