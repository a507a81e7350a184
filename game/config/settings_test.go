package config

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/raiinet/game/engine"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{"RAIINET_CONFIG_DIR", "RAIINET_LOG_LEVEL", "RAIINET_SPECTATE_ADDR", "RAIINET_ABILITY1", "RAIINET_ABILITY2", "RAIINET_LINK1", "RAIINET_LINK2", "RAIINET_DEFAULT_SETUP", "NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_DOMAIN"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "configs", s.ConfigDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.SpectateAddr)
	assert.Empty(t, s.DefaultSetup)
	assert.False(t, s.Ngrok)
	assert.False(t, s.HasOverrides())
	assert.Equal(t, engine.DefaultGameConfig(), s.GameConfig())
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("RAIINET_CONFIG_DIR", "/tmp/setups")
	t.Setenv("RAIINET_LOG_LEVEL", "DEBUG")
	t.Setenv("RAIINET_SPECTATE_ADDR", ":9090")
	t.Setenv("RAIINET_ABILITY2", "JJHHW")
	t.Setenv("RAIINET_LINK1", "D1D2D3D4V1V2V3V4")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/setups", s.ConfigDir)
	assert.Equal(t, ":9090", s.SpectateAddr)
	assert.True(t, s.HasOverrides())

	cfg := s.GameConfig()
	assert.Equal(t, engine.DefaultAbilityOrder, cfg.Ability1)
	assert.Equal(t, "JJHHW", cfg.Ability2)
	assert.Equal(t, "D1D2D3D4V1V2V3V4", cfg.Link1)
	assert.Equal(t, engine.DefaultLinkLayout, cfg.Link2)

	lvl, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestParseEnv_WrapsErrors(t *testing.T) {
	var target struct {
		Port int `env:"RAIINET_TEST_PORT"`
	}
	t.Setenv("RAIINET_TEST_PORT", "not-a-number")

	err := ParseEnv(&target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestSettings_Level(t *testing.T) {
	lvl, err := Settings{}.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	_, err = Settings{LogLevel: "loud"}.Level()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAIINET_LOG_LEVEL")
}

func TestLoadSettings_Tunnel(t *testing.T) {
	t.Setenv("RAIINET_DEFAULT_SETUP", "blitz")
	t.Setenv("NGROK_ENABLED", "1")
	t.Setenv("NGROK_AUTHTOKEN", "tok")
	t.Setenv("NGROK_DOMAIN", "raiinet.example.dev")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "blitz", s.DefaultSetup)
	assert.True(t, s.Ngrok)
	assert.Equal(t, "tok", s.NgrokAuthtoken)
	assert.Equal(t, "raiinet.example.dev", s.NgrokDomain)
}
