package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATA_DIR", "PORTAL_API_URL", "LOG_LEVEL", "HISTORY_SOURCE"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_CreatesDefaultOnFirstRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, HistorySourceStub, cfg.Processing.HistorySource)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.GetDataDir())
	assert.Equal(t, filepath.Join(dir, "data", "uploads"), cfg.GetUploadDir())
	assert.Equal(t, filepath.Join(dir, "data", "journal.duckdb"), cfg.Storage.JournalPath)

	// Reloading the written file yields the same values.
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Services, again.Services)
	assert.Equal(t, cfg.Profile, again.Profile)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.config")
	xmlDoc := `<?xml version="1.0" encoding="UTF-8"?>
<HomologationPortal>
  <Server><Port>9100</Port><BindAddress>127.0.0.1</BindAddress></Server>
  <Services>
    <BaseURL>http://api.local</BaseURL>
    <IntakeURL>http://intake.local</IntakeURL>
    <CatalogFile>catalog.yaml</CatalogFile>
  </Services>
  <Processing><HistorySource>journal</HistorySource><HistoryTimeoutMillis>500</HistoryTimeoutMillis></Processing>
</HomologationPortal>`
	require.NoError(t, os.WriteFile(path, []byte(xmlDoc), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.GetServerAddr())
	assert.Equal(t, "http://api.local", cfg.ServiceURL(cfg.Services.DirectoryURL))
	assert.Equal(t, "http://intake.local", cfg.ServiceURL(cfg.Services.IntakeURL))
	assert.Equal(t, filepath.Join(dir, "catalog.yaml"), cfg.Services.CatalogFile)
	assert.Equal(t, HistorySourceJournal, cfg.Processing.HistorySource)
	assert.Equal(t, 500*time.Millisecond, cfg.HistoryTimeout())

	// Sections missing from the file keep their defaults.
	assert.Equal(t, 500, cfg.Processing.MaxSessions)
	assert.Equal(t, "Não informado", cfg.Profile.NotInformed)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "elsewhere")
	t.Setenv("PORT", "7000")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("PORTAL_API_URL", "http://portal.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HISTORY_SOURCE", "JOURNAL")

	cfg, err := LoadConfig(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.GetDataDir())
	assert.Equal(t, filepath.Join(dataDir, "uploads"), cfg.GetUploadDir())
	assert.Equal(t, filepath.Join(dataDir, "journal.duckdb"), cfg.Storage.JournalPath)
	assert.Equal(t, "http://portal.example", cfg.Services.BaseURL)
	assert.Equal(t, "debug", cfg.Advanced.LogLevel)
	assert.Equal(t, HistorySourceJournal, cfg.Processing.HistorySource)
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad history source", `<HomologationPortal><Processing><HistorySource>redis</HistorySource></Processing></HomologationPortal>`},
		{"journal without path", `<HomologationPortal><Storage><JournalPath></JournalPath></Storage><Processing><HistorySource>journal</HistorySource></Processing></HomologationPortal>`},
		{"bad port", `<HomologationPortal><Server><Port>70000</Port></Server></HomologationPortal>`},
		{"bad size", `<HomologationPortal><Storage><MaxFileSize>lots</MaxFileSize></Storage></HomologationPortal>`},
		{"malformed xml", `<HomologationPortal><Server>`},
		{"unknown profile status", `<HomologationPortal><Profile><Status>BOGUS</Status></Profile></HomologationPortal>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "portal.config")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"512K", 512 << 10, false},
		{"25M", 25 << 20, false},
		{"25mb", 25 << 20, false},
		{"2G", 2 << 30, false},
		{"abc", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins())

	cfg.Server.AllowOrigins = " , "
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())

	cfg.Server.EnableCORS = false
	assert.Nil(t, cfg.CORSOrigins())
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Hour, cfg.SessionTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())
	assert.Equal(t, int64(25<<20), cfg.MaxFileSizeBytes())

	cfg.Processing.CleanupIntervalMinutes = 0
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())
}

func TestLoadConfig_ProfileStatusRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultFileName)

	cfg := DefaultConfig()
	cfg.Profile.Status = "APPROVED"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", loaded.Profile.Status)

	cfg.Profile.Status = "BOGUS"
	require.NoError(t, cfg.Save(path))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "BOGUS")
}
