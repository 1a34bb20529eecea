package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "sqlite", URL: "events.db"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_MinimalConfig(t *testing.T) {
	err := Validate(validConfig())
	assert.NoError(t, err)
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mysql"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_DirectoryTabsRequiredWithSheet(t *testing.T) {
	cfg := validConfig()
	cfg.Directory = DirectoryConfig{SheetID: "sheet123", UsersTab: "Users"}

	err := Validate(cfg)
	assert.Error(t, err)

	cfg.Directory.DriversTab = "Drivers"
	cfg.Directory.VolunteersTab = "Volunteers"
	assert.NoError(t, Validate(cfg))
	assert.True(t, cfg.Directory.Enabled())
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := validConfig()
	cfg.FollowUp.RRule = "FREQ=SOMETIMES"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in followUp")
}

func TestValidate_MaxWriteAttemptsBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Assignment.MaxWriteAttempts = 50

	assert.Error(t, Validate(cfg))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultPageSize, cfg.Query.DefaultPageSize)
	assert.Equal(t, DefaultMaxWriteAttempts, cfg.Assignment.MaxWriteAttempts)
	assert.Equal(t, DefaultFollowUpRRule, cfg.FollowUp.RRule)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.False(t, cfg.Directory.Enabled())
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "event_requests_config.yaml", `
database:
  driver: postgres
  url: postgres://localhost:5432/events
directory:
  sheetID: sheet123
  usersTab: Users
  driversTab: Drivers
  volunteersTab: Volunteers
lifecycle:
  strictTransitions: true
query:
  defaultPageSize: 10
assignment:
  maxWriteAttempts: 5
followUp:
  rrule: FREQ=DAILY;INTERVAL=3
server:
  addr: ":9090"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "sheet123", cfg.Directory.SheetID)
	assert.Equal(t, "Volunteers", cfg.Directory.VolunteersTab)
	assert.True(t, cfg.Lifecycle.StrictTransitions)
	assert.Equal(t, 10, cfg.Query.DefaultPageSize)
	assert.Equal(t, 5, cfg.Assignment.MaxWriteAttempts)
	assert.Equal(t, "FREQ=DAILY;INTERVAL=3", cfg.FollowUp.RRule)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
database:
  driver: sqlite
  url: ":memory:"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.False(t, cfg.Lifecycle.StrictTransitions)
	assert.Equal(t, DefaultPageSize, cfg.Query.DefaultPageSize)
	assert.Equal(t, DefaultFollowUpRRule, cfg.FollowUp.RRule)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "database: [unclosed")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "event_requests_config.test.yaml", `
database:
  driver: sqlite
  url: test.db
`)
	t.Chdir(dir)

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "test.db", cfg.Database.URL)
}

func TestLoadOAuthClientFromPath(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "oauthClient.json", `{
  "installed": {
    "client_id": "id.apps.googleusercontent.com",
    "project_id": "tsp-events",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`)

	cfg, err := LoadOAuthClientFromPath(valid)
	require.NoError(t, err)
	assert.Equal(t, "tsp-events", cfg.Installed.ProjectID)

	invalid := writeFile(t, dir, "bad.json", `{"installed": {"client_id": "id"}}`)
	_, err = LoadOAuthClientFromPath(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth client validation failed")
}
