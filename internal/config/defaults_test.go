package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/potvault/internal/config"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	assert.Equal(t, config.DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, config.DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, config.DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, config.DefaultDBMaxConns, cfg.Database.MaxConns)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, config.DefaultMigrationPath, cfg.Database.MigrationPath)

	assert.Equal(t, config.DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, config.DefaultRedisTTL, cfg.Redis.DefaultTTL)
	assert.Equal(t, config.DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)

	assert.Equal(t, config.DefaultMinIOEndpoint, cfg.MinIO.Endpoint)
	assert.Equal(t, config.DefaultMinIOBucket, cfg.MinIO.Bucket)

	assert.Equal(t, config.DefaultLibraryWorkers, cfg.Library.Workers)
	assert.Equal(t, config.DefaultWatchDebounce, cfg.Library.WatchDebounce)

	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Library.Workers = 2
	cfg.Redis.DefaultTTL = time.Minute
	cfg.Log.Format = "json"

	config.ApplyDefaults(cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 2, cfg.Library.Workers)
	assert.Equal(t, time.Minute, cfg.Redis.DefaultTTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyDefaults_NilIsSafe(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { config.ApplyDefaults(nil) })
}
