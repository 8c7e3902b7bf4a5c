package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled, "database must be off by default")
	assert.Equal(t, 90*time.Second, cfg.Game.EncounterTTL)
	assert.Equal(t, 2*time.Second, cfg.Game.SaveDebounce)
}

func TestDSN(t *testing.T) {
	d := Database{Host: "db", Port: 5433, User: "app", Password: "secret", Name: "game"}
	assert.Equal(t, "postgres://app:secret@db:5433/game", d.DSN())
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "missing file must not be an error")
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  port: 9090\ngame:\n  item_use_costs_turn: true\n  encounter_ttl: 30s\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Game.ItemUseCostsTurn)
	assert.Equal(t, 30*time.Second, cfg.Game.EncounterTTL)
	// Незатронутые поля остаются дефолтными.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
