package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"default", func(c *GameConfig) {}, ""},
		{"lowercase codes", func(c *GameConfig) { c.Ability1 = "lfdsp" }, ""},
		{"two of a kind", func(c *GameConfig) { c.Ability2 = "LLFFD" }, ""},
		{"lowercase layout", func(c *GameConfig) { c.Link2 = "d1v1d2v2d3v3d4v4" }, ""},
		{"short order", func(c *GameConfig) { c.Ability1 = "LFDS" }, "exactly 5 characters"},
		{"unknown code", func(c *GameConfig) { c.Ability2 = "LFDSZ" }, "invalid ability 'Z'"},
		{"three of a kind", func(c *GameConfig) { c.Ability1 = "LLLFD" }, "at most 2"},
		{"mixed case triple", func(c *GameConfig) { c.Ability1 = "LlLFD" }, "at most 2"},
		{"short layout", func(c *GameConfig) { c.Link1 = "V1V2V3" }, "must describe 8 links"},
		{"bad kind", func(c *GameConfig) { c.Link1 = "V1V2V3V4D1D2D3X4" }, "link type must be V or D"},
		{"bad strength", func(c *GameConfig) { c.Link2 = "V0V2V3V4D1D2D3D4" }, "between 1 and 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			tt.mutate(cfg)
			err := ValidateGameConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.ErrorIs(t, ValidateGameConfig(nil), ErrInvalidConfig)
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{
		"name": "aggressive",
		"description": "boost and download",
		"ability1": "LLDDF",
		"link1": "V4V3D4D3V2V1D2D1"
	}`), 0o644))

	cfg, err := LoadGameConfig(valid)
	require.NoError(t, err)
	assert.Equal(t, "aggressive", cfg.Name)
	assert.Equal(t, "LLDDF", cfg.Ability1)
	assert.Equal(t, DefaultAbilityOrder, cfg.Ability2)
	assert.Equal(t, "V4V3D4D3V2V1D2D1", cfg.Link1)
	assert.Equal(t, DefaultLinkLayout, cfg.Link2)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"ability1": "JJJJJ"}`), 0o644))
	_, err = LoadGameConfig(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{not json`), 0o644))
	_, err = LoadGameConfig(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	_, err = LoadGameConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShuffledLayout(t *testing.T) {
	a := ShuffledLayout(42)
	b := ShuffledLayout(42)
	assert.Equal(t, a, b, "same seed gives the same layout")

	require.NoError(t, ValidateLinkLayout(a, "link1"))
	assert.Equal(t, 4, CountKind(a, Virus))
	assert.Equal(t, 4, CountKind(a, Data))
	assert.Equal(t, 10, TotalStrength(a, Virus))
	assert.Equal(t, 10, TotalStrength(a, Data))

	differs := false
	for seed := uint64(1); seed < 20; seed++ {
		if ShuffledLayout(seed) != a {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestStartPosition(t *testing.T) {
	assert.Equal(t, Position{Row: 0, Col: 0}, StartPosition(Player1, 0))
	assert.Equal(t, Position{Row: 1, Col: 3}, StartPosition(Player1, 3))
	assert.Equal(t, Position{Row: 1, Col: 4}, StartPosition(Player1, 4))
	assert.Equal(t, Position{Row: 7, Col: 7}, StartPosition(Player2, 7))
	assert.Equal(t, Position{Row: 6, Col: 3}, StartPosition(Player2, 3))
}

func TestLayoutHelpers(t *testing.T) {
	assert.Equal(t, 4, CountKind(DefaultLinkLayout, Virus))
	assert.Equal(t, 10, TotalStrength(DefaultLinkLayout, Data))
	assert.Equal(t, 0, CountKind("", Data))

	idx, owner, ok := LinkIndexForLabel('c')
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, Player1, owner)

	idx, owner, ok = LinkIndexForLabel('H')
	assert.True(t, ok)
	assert.Equal(t, 15, idx)
	assert.Equal(t, Player2, owner)

	_, _, ok = LinkIndexForLabel('i')
	assert.False(t, ok)
	assert.Equal(t, byte('F'), LabelFor(Player2, 5))
}
