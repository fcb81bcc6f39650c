package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadWithDefaults(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: test-secret
db:
  driver: sqlite
  dsn: file:test.db
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "test-secret", c.JWT.Secret)
	assert.Equal(t, "newsportal", c.JWT.Issuer)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.True(t, c.DB.AutoMigrate)
	assert.Equal(t, int64(300), c.Limits.MaxInFlight)
	assert.Equal(t, "", c.Redis.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	p := writeConfig(t, `
app:
  http:
    port: 9000
jwt:
  secret: from-file
db:
  dsn: postgres://localhost/news
`)
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_APP_HTTP_PORT", "9100")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 9100, c.App.HTTP.Port)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	p := writeConfig(t, `
db:
  dsn: postgres://localhost/news
`)
	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadRequiresSeedCredentials(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: x
db:
  dsn: postgres://localhost/news
seed:
  enabled: true
`)
	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
