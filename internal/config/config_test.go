package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBatchSize, cfg.Sync.BatchSize)
	assert.Equal(t, "AR", cfg.Sync.CountryCode)
	assert.Equal(t, "id", cfg.Sync.Properties.ID)
	assert.Equal(t, 30*time.Second, cfg.MapperAPI.RequestTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "http://localhost:3000,http://localhost:5173", cfg.Server.CORSOrigins)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "250")
	t.Setenv("SYNC_COUNTRY_CODE", "co")
	t.Setenv("MAPPER_API_BASE_URL", "http://mapper.local:3000/")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Sync.BatchSize)
	assert.Equal(t, "CO", cfg.Sync.CountryCode)
	assert.Equal(t, "http://mapper.local:3000", cfg.MapperAPI.BaseURL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadFile_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEOJSON_NAME2_KEY=localidad\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GEOJSON_NAME2_KEY") })

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "localidad", cfg.Sync.Properties.Name2)
}

func TestLoadFile_NonPositiveBatchFallsBack(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "0")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, cfg.Sync.BatchSize)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "mapper", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=mapper sslmode=disable", cfg.GetDatabaseDSN())
}
