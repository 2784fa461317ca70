package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Mode: "debug"},
		Database:  DatabaseConfig{Driver: "sqlite"},
		JWT:       JWTConfig{Secret: "short"},
		Analytics: AnalyticsConfig{ActiveWindowDays: 7, TopCoursesLimit: 5},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Database.Driver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg = validConfig()
	cfg.Server.Mode = "release"
	assert.ErrorContains(t, cfg.Validate(), "JWT secret is too short")

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.Analytics.ActiveWindowDays = 0
	assert.ErrorContains(t, cfg.Validate(), "active_window_days")

	cfg = validConfig()
	cfg.Analytics.TopCoursesLimit = -1
	assert.ErrorContains(t, cfg.Validate(), "top_courses_limit")
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	yaml := `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  dbname: elearning.db
jwt:
  secret: from-file
  expire_hours: 2
storage:
  type: local
  local_path: ` + uploads + `
analytics:
  active_window_days: 14
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 14, cfg.Analytics.ActiveWindowDays)
	assert.Equal(t, 5, cfg.Analytics.TopCoursesLimit)
	assert.Equal(t, "log", cfg.Mail.Provider)
	assert.DirExists(t, uploads)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile())
}

func TestLoadConfig_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("database:\n  driver: oracle\n"), 0o644))

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unsupported database driver")
}
