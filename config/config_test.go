package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, "sqlite", cfg.Database.Mode)
	assert.Equal(t, "./data/fitquest.db", cfg.Database.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.Cache.LocalGCInterval)
	assert.Equal(t, 5, cfg.Game.WalkXPPer100M)
	assert.Equal(t, 2, cfg.Game.StrengthXPPerRep)
	assert.Equal(t, 300, cfg.Game.LeaderboardRefreshS)
	assert.Equal(t, 1800, cfg.Game.StateSweepS)
	assert.Equal(t, 72*time.Hour, cfg.Security.JWTTTLH)
	assert.Equal(t, float64(100), cfg.Security.RateLimitRPS)
	assert.Equal(t, 200, cfg.Security.RateLimitBurst)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 3000
  debug: true
  admin_key: sekrit
database:
  mode: mysql
  mysql_dsn: user:pass@tcp(localhost:3306)/fitquest
  mysql_max_open: 20
cache:
  redis_addr: localhost:6379
  redis_db: 3
game:
  walk_xp_per_100m: 10
  cardio_xp_per_min: 8
security:
  jwt_secret: test-secret
  jwt_ttl_h: 24h
  admin_allowed_ips:
    - 10.0.0.1
    - 10.0.0.2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "sekrit", cfg.Server.AdminKey)
	assert.Equal(t, "mysql", cfg.Database.Mode)
	assert.Equal(t, 20, cfg.Database.MySQLMaxOpen)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
	assert.Equal(t, 10, cfg.Game.WalkXPPer100M)
	assert.Equal(t, 8, cfg.Game.CardioXPPerMin)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTTTLH)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Security.AdminAllowedIPs)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
