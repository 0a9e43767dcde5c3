package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRY_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxImageBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "menu")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "qrmenu")
	t.Setenv("JWT_EXPIRY_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Seed.DemoData)
	assert.Equal(t,
		"host=db port=5432 user=menu password=secret dbname=qrmenu sslmode=disable TimeZone=UTC",
		cfg.Database.GetDSN())
}

func TestGetDSN(t *testing.T) {
	assert.Equal(t, "custom", DatabaseConfig{Driver: "mysql", DSN: "custom"}.GetDSN())
	assert.Equal(t,
		"u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC",
		DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "h", Name: "n"}.GetDSN())
	assert.Equal(t, "menu.db?_foreign_keys=on", DatabaseConfig{Driver: "sqlite", Name: "menu"}.GetDSN())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		GinMode:  "debug",
		Database: DatabaseConfig{Driver: "oracle"},
		Storage:  StorageConfig{MaxImageBytes: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	assert.NoError(t, cfg.Validate())

	cfg.GinMode = "release"
	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.MaxImageBytes = 0
	assert.Error(t, cfg.Validate())
}
