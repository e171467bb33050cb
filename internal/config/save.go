package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for a key that is not a configuration setting.
var ErrUnknownKey = errors.New("config: unknown key")

// Encode writes cfg as YAML. The curator token is redacted.
func Encode(w io.Writer, cfg Config) error {
	if cfg.Curator.Token != "" {
		cfg.Curator.Token = "<redacted>"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return enc.Close()
}

// Save writes cfg to path atomically (temp file, then rename). Secrets are
// written as given.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	temp, err := os.CreateTemp(dir, ".biochemreg.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("config: close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("config: rename temp file: %w", err)
	}
	return nil
}

// Set changes one dotted key (e.g. storage.driver) in the file at path and
// saves the result. A missing file starts from Defaults. Environment
// overrides are not applied, so they never leak into the file. List values
// are comma separated.
func Set(path, key, value string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(v.AllKeys(), key) {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}
	v.Set(key, value)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
