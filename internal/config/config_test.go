package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/archive"
	"github.com/rezonia/ehf-generator/internal/config"
	"github.com/rezonia/ehf-generator/internal/mapper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ehf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, mapper.DefaultRules(), cfg.Rules)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DriverFile, cfg.Archive.Driver)
	assert.Equal(t, "./ehf-archive", cfg.Archive.Dir)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
rules:
  default_unit_code: HUR
  placeholder_endpoint: MISSING
log:
  level: debug
  format: json
server:
  address: ":9090"
  write_timeout: 1m
archive:
  driver: s3
  bucket: ehf-docs
  endpoint: http://localhost:9000
  access_key: minio
  secret_key: minio123
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "HUR", cfg.Rules.DefaultUnitCode)
	assert.Equal(t, "MISSING", cfg.Rules.PlaceholderEndpoint)
	assert.Equal(t, "0192", cfg.Rules.DefaultScheme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, config.DriverS3, cfg.Archive.Driver)
	assert.Equal(t, "ehf-docs", cfg.Archive.Bucket)
	assert.True(t, cfg.Archive.UsePathStyle)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EHF_LOG_LEVEL", "warn")
	t.Setenv("EHF_RULES_DEFAULT_COUNTRY", "SE")
	t.Setenv("EHF_ARCHIVE_DIR", "/tmp/ehf-out")

	cfg, err := config.Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "SE", cfg.Rules.DefaultCountry)
	assert.Equal(t, "/tmp/ehf-out", cfg.Archive.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "archive:\n  driver: ftp\n"},
		{"s3 without bucket", "archive:\n  driver: s3\n  access_key: a\n  secret_key: b\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad endpoint", "archive:\n  endpoint: not a url\n"},
		{"broken yaml", "log: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestArchiveConfig_Store(t *testing.T) {
	dir := t.TempDir()
	store, err := config.ArchiveConfig{Driver: config.DriverFile, Dir: dir}.Store(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &archive.FileStore{}, store)

	_, err = config.ArchiveConfig{Driver: "ftp"}.Store(context.Background(), zap.NewNop())
	assert.Error(t, err)
}
