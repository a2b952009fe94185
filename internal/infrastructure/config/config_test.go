package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET_KEY": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
	assert.Empty(t, cfg.Auth.SeedAdmin)
	assert.Equal(t, 5, cfg.Auth.LockoutMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, "bookstore", cfg.BookStore.Database)
	assert.Equal(t, "identity", cfg.UserStore.Database)
	assert.Equal(t, "mongodb://localhost:27017", cfg.UserStore.URI)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Throttle.Limit)
	assert.Equal(t, time.Minute, cfg.Throttle.Window)
	assert.Equal(t, 4, cfg.Audit.Workers)
}

func TestLoadWith_MissingSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.ErrorIs(t, err, envconfig.ErrMissingRequired)
}

func TestLoadWith_Prefixes(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET_KEY":     "k",
		"AUTH_SEED_ADMIN":     "renan",
		"BOOKSTORE_MONGO_URI": "mongodb://books:27017",
		"BOOKSTORE_MONGO_DB":  "library",
		"USERSTORE_MONGO_URI": "mongodb://users:27017",
		"REDIS_ENABLED":       "false",
		"THROTTLE_WINDOW":     "30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "renan", cfg.Auth.SeedAdmin)
	assert.Equal(t, "mongodb://books:27017", cfg.BookStore.URI)
	assert.Equal(t, "library", cfg.BookStore.Database)
	assert.Equal(t, "mongodb://users:27017", cfg.UserStore.URI)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Throttle.Window)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_SECRET_KEY=from-file\nPORT=9000\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("AUTH_SECRET_KEY", "env-secret")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.SecretKey)
}

func TestLoadWith_TrustedProxies(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET_KEY": "k",
		"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.0/24",
	}))
	require.NoError(t, err)

	ranges, err := cfg.TrustedProxyRanges()
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "10.0.0.0/8", ranges[0].String())
	assert.Equal(t, "192.168.1.0/24", ranges[1].String())
}

func TestLoadWith_InvalidTrustedProxy(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET_KEY": "k",
		"TRUSTED_PROXIES": "10.0.0.1",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}
