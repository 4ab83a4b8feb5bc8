package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", ":9999", "-o", "s3", "-b", "archive", "-t", "5"}

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, "archive", cfg.S3Bucket)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"endpoint_addr_http": ":7070",
		"database_dsn": "postgres://u:p@db:5432/docs",
		"access_token_validity_duration": "30m",
		"max_upload_bytes": 1024
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"testbin", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/docs", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	// fields absent from the file keep their defaults
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_http": ":7070"}`), 0o600))

	os.Args = []string{"testbin", "-c", path, "-a", ":6060"}

	cfg := LoadConfig()
	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
}
