package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.Expiration)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignExpiry)
	assert.Empty(t, cfg.Redis.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
database:
  driver: postgres
  dsn: "host=localhost user=fit dbname=fit"
session:
  secret: from-file
  expiration: 2h
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SESSION_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Session.Expiration)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: DriverSQLite, DSN: "x.db"},
		Session:  SessionConfig{Secret: "k"},
	}
	require.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.Session.Secret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := valid
	badDriver.Database.Driver = "oracle"
	assert.Error(t, badDriver.Validate())

	noDSN := valid
	noDSN.Database.DSN = ""
	assert.Error(t, noDSN.Validate())
}
