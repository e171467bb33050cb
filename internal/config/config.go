// Package config loads biochemreg settings from defaults, an optional YAML
// file, and BIOCHEMREG_* environment variables (highest precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"biochemreg/pkg/domain"
)

// EnvPrefix prefixes every environment override, e.g.
// BIOCHEMREG_STORAGE_DRIVER for storage.driver.
const EnvPrefix = "BIOCHEMREG"

// DefaultPath is the project-local config file.
const DefaultPath = ".biochemreg/config.yaml"

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Reports ReportsConfig `mapstructure:"reports" yaml:"reports"`
	Match   MatchConfig   `mapstructure:"match" yaml:"match"`
	Curator CuratorConfig `mapstructure:"curator" yaml:"curator"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// StorageConfig selects the registry store.
type StorageConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"` // memory|sqlite|postgres|badger
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	BadgerDir   string `mapstructure:"badger_dir" yaml:"badger_dir"`
}

// ReportsConfig selects where .rpt audit files go.
type ReportsConfig struct {
	Driver       string `mapstructure:"driver" yaml:"driver"` // fs|s3|memory
	Dir          string `mapstructure:"dir" yaml:"dir"`
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	Region       string `mapstructure:"region" yaml:"region"`
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint"`
	Prefix       string `mapstructure:"prefix" yaml:"prefix"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// MatchConfig tunes the matching cascade.
type MatchConfig struct {
	// Formats is the structure lookup priority.
	Formats []string `mapstructure:"formats" yaml:"formats"`
	// Strict aborts a run on the first malformed record instead of skipping it.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// CuratorConfig points at the account API used by curated runs.
type CuratorConfig struct {
	APIURL string `mapstructure:"api_url" yaml:"api_url"`
	Token  string `mapstructure:"token" yaml:"token,omitempty"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug|info|warn|error
	Format string `mapstructure:"format" yaml:"format"` // text|json
}

// MetricsConfig enables the prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "./biochemreg.db",
			BadgerDir:  "./biochemreg.badger",
		},
		Reports: ReportsConfig{
			Driver: "fs",
			Dir:    ".",
		},
		Match: MatchConfig{
			Formats: []string{"inchi", "inchikey", "smiles"},
		},
		Curator: CuratorConfig{
			APIURL: "https://api.github.com",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with v so that environment overrides are
// honoured by Unmarshal even when no file mentions the key.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)
	v.SetDefault("storage.badger_dir", d.Storage.BadgerDir)
	v.SetDefault("reports.driver", d.Reports.Driver)
	v.SetDefault("reports.dir", d.Reports.Dir)
	v.SetDefault("reports.bucket", d.Reports.Bucket)
	v.SetDefault("reports.region", d.Reports.Region)
	v.SetDefault("reports.endpoint", d.Reports.Endpoint)
	v.SetDefault("reports.prefix", d.Reports.Prefix)
	v.SetDefault("reports.use_path_style", d.Reports.UsePathStyle)
	v.SetDefault("match.formats", d.Match.Formats)
	v.SetDefault("match.strict", d.Match.Strict)
	v.SetDefault("curator.api_url", d.Curator.APIURL)
	v.SetDefault("curator.token", d.Curator.Token)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

// Load reads configuration into a fresh viper instance. An explicit path
// must exist; otherwise DefaultPath is read when present.
func Load(path string) (Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultPath); err == nil {
			v.SetConfigFile(DefaultPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, nil, fmt.Errorf("config: read %s: %w", DefaultPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, v, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres", "badger":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: want memory|sqlite|postgres|badger", c.Storage.Driver))
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn required for postgres driver"))
	}
	switch c.Reports.Driver {
	case "fs", "s3", "memory":
	default:
		errs = append(errs, fmt.Errorf("reports.driver %q: want fs|s3|memory", c.Reports.Driver))
	}
	if c.Reports.Driver == "s3" && c.Reports.Bucket == "" {
		errs = append(errs, errors.New("reports.bucket required for s3 driver"))
	}
	if _, err := c.Match.StructureFormats(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text|json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// StructureFormats parses Formats in priority order.
func (m MatchConfig) StructureFormats() ([]domain.Format, error) {
	out := make([]domain.Format, 0, len(m.Formats))
	seen := make(map[domain.Format]bool)
	for _, s := range m.Formats {
		f, err := domain.ParseFormat(s)
		if err != nil {
			return nil, fmt.Errorf("match.formats: %w", err)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// WriteDefault creates a commented config file at path. Parent directories
// are created as needed; an existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// DefaultTemplate is written by WriteDefault.
const DefaultTemplate = `# biochemreg configuration
# Every key can be overridden with BIOCHEMREG_<SECTION>_<KEY>,
# e.g. BIOCHEMREG_STORAGE_DRIVER=postgres.

storage:
  # memory | sqlite | postgres | badger
  driver: sqlite
  sqlite_path: ./biochemreg.db
  postgres_dsn: ""
  badger_dir: ./biochemreg.badger

reports:
  # fs | s3 | memory
  driver: fs
  dir: .
  # s3 only
  bucket: ""
  region: ""
  endpoint: ""
  prefix: ""
  use_path_style: false

match:
  # structure lookup priority
  formats: [inchi, inchikey, smiles]
  # abort on the first malformed input line
  strict: false

curator:
  api_url: https://api.github.com

log:
  level: info
  format: text

metrics:
  # write prometheus text exposition here after each run
  textfile: ""
`
