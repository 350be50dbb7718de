package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"salescli/internal/errors"
)

// DefaultConfigFile is the YAML file Load looks for next to the working
// directory
const DefaultConfigFile = "salescli.yaml"

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/salescli.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig describes one aggregation run: which files to pick up, how
// to join the status reference, and what to aggregate. The default status
// level lives here, not in the transform library: which level unmatched
// accounts fall into is a caller decision.
type PipelineConfig struct {
	SalesPattern  string   `yaml:"sales_pattern" envconfig:"SALES_PATTERN" default:"sales-*-2014.xlsx" validate:"required"`
	StatusFile    string   `yaml:"status_file" envconfig:"STATUS_FILE" default:"customer-status.xlsx" validate:"required"`
	SchemaPolicy  string   `yaml:"schema_policy" envconfig:"SCHEMA_POLICY" default:"union" validate:"oneof=union intersect strict"`
	DateColumn    string   `yaml:"date_column" envconfig:"DATE_COLUMN" default:"date"`
	DateLayout    string   `yaml:"date_layout" envconfig:"DATE_LAYOUT"`
	JoinColumns   []string `yaml:"join_columns" envconfig:"JOIN_COLUMNS" default:"account number,name" validate:"min=1"`
	StatusColumn  string   `yaml:"status_column" envconfig:"STATUS_COLUMN" default:"status" validate:"required"`
	DefaultStatus string   `yaml:"default_status" envconfig:"DEFAULT_STATUS" default:"bronze" validate:"required"`
	StatusLevels  []string `yaml:"status_levels" envconfig:"STATUS_LEVELS" default:"gold,silver,bronze" validate:"min=1"`
	ValueColumns  []string `yaml:"value_columns" envconfig:"VALUE_COLUMNS" default:"quantity,unit price,ext price" validate:"min=1"`
	DedupColumns  []string `yaml:"dedup_columns" envconfig:"DEDUP_COLUMNS" default:"account number,name" validate:"min=1"`
}

// Load loads configuration from the default config file and environment
// variables, with precedence env > file > struct defaults
func Load() (*Config, error) {
	return LoadFromFile(DefaultConfigFile)
}

// LoadFromFile is Load with an explicit config file path. A missing file is
// not an error; the struct defaults and environment cover everything.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.NewConfigError("failed to parse config file", err).
					WithContext("path", path)
			}
		case !os.IsNotExist(err):
			return nil, errors.NewConfigError("failed to read config file", err).
				WithContext("path", path)
		}
	}

	// envconfig fills defaults for anything the file left unset and lets
	// environment variables override both
	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and cross-field consistency
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.NewConfigError("config validation failed", err)
	}

	levelSet := make(map[string]bool, len(c.Pipeline.StatusLevels))
	for _, l := range c.Pipeline.StatusLevels {
		levelSet[l] = true
	}
	if !levelSet[c.Pipeline.DefaultStatus] {
		return errors.NewConfigError(
			fmt.Sprintf("default status %q is not among the configured levels %v",
				c.Pipeline.DefaultStatus, c.Pipeline.StatusLevels), nil)
	}

	return nil
}

// StatusFilePath resolves the status reference file against the data dir
func (c *Config) StatusFilePath() string {
	if filepath.IsAbs(c.Pipeline.StatusFile) {
		return c.Pipeline.StatusFile
	}
	return filepath.Join(c.Paths.DataDir, c.Pipeline.StatusFile)
}

// EnsureDirectories creates the output and logs directories if needed
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError("failed to create directory", err).
				WithContext("dir", dir)
		}
	}
	return nil
}
