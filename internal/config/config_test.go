package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/potvault/internal/config"
)

// validConfig returns a Config that passes Validate; tests mutate single
// fields to probe individual checks.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Database.User = "potvault"
	return cfg
}

func TestValidate_ValidConfigPasses(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{"missing db host", func(c *config.Config) { c.Database.Host = "" }, "database.host"},
		{"db port out of range", func(c *config.Config) { c.Database.Port = 70000 }, "database.port"},
		{"missing db user", func(c *config.Config) { c.Database.User = "" }, "database.user"},
		{"missing db name", func(c *config.Config) { c.Database.DBName = "" }, "database.db_name"},
		{"zero max conns", func(c *config.Config) { c.Database.MaxConns = 0 }, "database.max_conns"},
		{"missing redis addr", func(c *config.Config) { c.Redis.Addr = "" }, "redis.addr"},
		{"negative redis db", func(c *config.Config) { c.Redis.DB = -1 }, "redis.db"},
		{"missing minio endpoint", func(c *config.Config) { c.MinIO.Endpoint = "" }, "minio.endpoint"},
		{"missing minio bucket", func(c *config.Config) { c.MinIO.Bucket = "" }, "minio.bucket"},
		{"zero workers", func(c *config.Config) { c.Library.Workers = 0 }, "library.workers"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
