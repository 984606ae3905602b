package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdemd.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesAndFillsDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, `
server {
  port = 9000
}

game {
  small_blind = 25
  big_blind   = 50
  start_delay = "500ms"
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:9000", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 25, cfg.Game.SmallBlind)
	assert.Equal(t, 50, cfg.Game.BigBlind)
	assert.Equal(t, 2, cfg.Game.MinPlayers)
	assert.Equal(t, 1000, cfg.Game.BuyIn)

	tc := cfg.TableConfig()
	assert.Equal(t, 500*time.Millisecond, tc.StartDelay)
	assert.Equal(t, 50, tc.BigBlind)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, `server { port = `)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidateRejectsContradictions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"blinds inverted", func(c *Config) { c.Game.SmallBlind = 50; c.Game.BigBlind = 20 }},
		{"single player game", func(c *Config) { c.Game.MinPlayers = 1 }},
		{"max below min", func(c *Config) { c.Game.MinPlayers = 4; c.Game.MaxPlayers = 3 }},
		{"too many seats", func(c *Config) { c.Game.MaxPlayers = 11 }},
		{"buy-in below blind", func(c *Config) { c.Game.BuyIn = 5 }},
		{"bad start delay", func(c *Config) { c.Game.StartDelay = "soon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
