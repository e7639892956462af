package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Duration(0), cfg.Triage.SimulatedLatency)
	assert.False(t, cfg.DoctorAlertsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRIAGE_SERVER_PORT", "9090")
	t.Setenv("TRIAGE_STORAGE_DRIVER", "postgres")
	t.Setenv("TRIAGE_STORAGE_DSN", "postgres://u:p@localhost/triage?sslmode=disable")
	t.Setenv("TRIAGE_TELEGRAM_TOKEN", "tok")
	t.Setenv("TRIAGE_TELEGRAM_DOCTOR_CHAT_ID", "42")
	t.Setenv("TRIAGE_TRIAGE_SIMULATED_LATENCY", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, int64(42), cfg.Telegram.DoctorChatID)
	assert.Equal(t, 2*time.Second, cfg.Triage.SimulatedLatency)
	assert.True(t, cfg.DoctorAlertsEnabled())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
log:
  level: debug
  format: json
report:
  font_path: /fonts/DejaVuSans.ttf
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/fonts/DejaVuSans.ttf", cfg.Report.FontPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 0},
		Storage: StorageConfig{Driver: "mysql"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "storage.dsn")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
