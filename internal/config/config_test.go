package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"biochemreg/pkg/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, v, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, Defaults(), cfg)

	formats, err := cfg.Match.StructureFormats()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFormatOrder, formats)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: badger
  badger_dir: /var/lib/reg
match:
  formats: [smiles, InChIKey]
  strict: true
log:
  level: debug
`), 0o600))
	t.Setenv("BIOCHEMREG_LOG_FORMAT", "json")
	t.Setenv("BIOCHEMREG_REPORTS_DIR", "/tmp/reports")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/reg", cfg.Storage.BadgerDir)
	assert.Equal(t, "./biochemreg.db", cfg.Storage.SQLitePath)
	assert.True(t, cfg.Match.Strict)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/reports", cfg.Reports.Dir)

	formats, err := cfg.Match.StructureFormats()
	require.NoError(t, err)
	assert.Equal(t, []domain.Format{domain.FormatSMILES, domain.FormatInChIKey}, formats)
}

func TestLoadReadsProjectFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, WriteDefault(DefaultPath))
	require.NoError(t, os.WriteFile(DefaultPath, []byte("storage:\n  driver: memory\n"), 0o600))

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Driver = "postgres"
	cfg.Reports.Driver = "s3"
	cfg.Match.Formats = []string{"mol2"}
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"postgres_dsn", "reports.bucket", "mol2", "log.format"} {
		assert.Contains(t, msg, want)
	}

	cfg = Defaults()
	cfg.Storage.Driver = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "storage.driver")
}

func TestWriteDefaultTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))
	require.Error(t, WriteDefault(path), "existing file is not overwritten")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Defaults()
	cfg.Storage.Driver = "postgres"
	cfg.Storage.PostgresDSN = "postgres://reg@localhost/reg"
	cfg.Curator.Token = "tok"
	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Config
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, cfg, back)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetWritesSingleKey(t *testing.T) {
	t.Setenv("BIOCHEMREG_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Set(path, "Storage.Driver", "badger")
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Driver)

	cfg, err = Set(path, "match.formats", "smiles,inchikey")
	require.NoError(t, err)
	assert.Equal(t, []string{"smiles", "inchikey"}, cfg.Match.Formats)
	assert.Equal(t, "badger", cfg.Storage.Driver, "earlier edits are kept")
	assert.Equal(t, "info", cfg.Log.Level, "environment is not persisted")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Config
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, cfg, back)
}

func TestSetRejectsUnknownAndInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := Set(path, "storage.colour", "blue")
	require.ErrorIs(t, err, ErrUnknownKey)

	_, err = Set(path, "reports.driver", "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reports.driver")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written on failure")
}

func TestEncodeRedactsToken(t *testing.T) {
	cfg := Defaults()
	cfg.Curator.Token = "ghp_secret"
	var b strings.Builder
	require.NoError(t, Encode(&b, cfg))
	assert.NotContains(t, b.String(), "ghp_secret")
	assert.Contains(t, b.String(), "<redacted>")
	assert.Equal(t, "ghp_secret", cfg.Curator.Token)
}
