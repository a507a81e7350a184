package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/wricardo/raiinet/game/engine"
)

// Settings is the environment layer of the CLI configuration
type Settings struct {
	ConfigDir    string `env:"RAIINET_CONFIG_DIR" envDefault:"configs"`
	LogLevel     string `env:"RAIINET_LOG_LEVEL" envDefault:"info"`
	SpectateAddr string `env:"RAIINET_SPECTATE_ADDR"`
	Ability1     string `env:"RAIINET_ABILITY1"`
	Ability2     string `env:"RAIINET_ABILITY2"`
	Link1        string `env:"RAIINET_LINK1"`
	Link2        string `env:"RAIINET_LINK2"`
	DefaultSetup string `env:"RAIINET_DEFAULT_SETUP"`

	// ngrok tunnel for the spectator server, named as ngrok's own tooling names them
	Ngrok          bool   `env:"NGROK_ENABLED"`
	NgrokAuthtoken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// GameConfig returns the default setup with any environment overrides applied.
// The result is not validated.
func (s Settings) GameConfig() *engine.GameConfig {
	cfg := engine.DefaultGameConfig()
	overrides := []struct {
		value string
		field *string
	}{
		{s.Ability1, &cfg.Ability1},
		{s.Ability2, &cfg.Ability2},
		{s.Link1, &cfg.Link1},
		{s.Link2, &cfg.Link2},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.field = o.value
		}
	}
	return cfg
}

// HasOverrides reports whether any ability order or link layout comes from the environment
func (s Settings) HasOverrides() bool {
	return s.Ability1 != "" || s.Ability2 != "" || s.Link1 != "" || s.Link2 != ""
}

// Level parses LogLevel; an empty value means info
func (s Settings) Level() (zerolog.Level, error) {
	if s.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid RAIINET_LOG_LEVEL %q: %w", s.LogLevel, err)
	}
	return lvl, nil
}
