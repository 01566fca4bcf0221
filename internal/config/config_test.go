package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsWithoutDatabase(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()
	assert.False(t, cfg.DB.Configured())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoadDatabaseDescriptor(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/gge")
	t.Setenv("CACHE_TTL", "600")
	t.Setenv("DB_TIMEOUT", "3s")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := Load()
	assert.True(t, cfg.DB.Configured())
	assert.Equal(t, "postgres://u:p@db:5432/gge", cfg.DB.DSN)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.DB.Timeout)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestHostAloneIsADescriptor(t *testing.T) {
	assert.True(t, DBConfig{Host: "195.35.61.58"}.Configured())
	assert.False(t, DBConfig{User: "u"}.Configured())
}
