package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/rand"
)

// GameConfig describes a match setup: ability orders and link layouts for both players
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Ability1    string `json:"ability1"`
	Ability2    string `json:"ability2"`
	Link1       string `json:"link1"`
	Link2       string `json:"link2"`
}

// DefaultGameConfig returns the standard setup used when no options are given
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Standard abilities and link layout for both players",
		Ability1:    DefaultAbilityOrder,
		Ability2:    DefaultAbilityOrder,
		Link1:       DefaultLinkLayout,
		Link2:       DefaultLinkLayout,
	}
}

// withDefaults fills empty fields from DefaultGameConfig
func (c *GameConfig) withDefaults() *GameConfig {
	out := DefaultGameConfig()
	if c == nil {
		return out
	}
	merged := *c
	if merged.Ability1 == "" {
		merged.Ability1 = out.Ability1
	}
	if merged.Ability2 == "" {
		merged.Ability2 = out.Ability2
	}
	if merged.Link1 == "" {
		merged.Link1 = out.Link1
	}
	if merged.Link2 == "" {
		merged.Link2 = out.Link2
	}
	return &merged
}

// ValidateAbilityOrder checks that order has exactly 5 known codes with at most 2 of each
func ValidateAbilityOrder(order, optName string) error {
	if len(order) != AbilitySlots {
		return configError("%s must be exactly %d characters, got %d", optName, AbilitySlots, len(order))
	}

	counts := make(map[Ability]int)
	for i := 0; i < len(order); i++ {
		a, err := ParseAbility(order[i])
		if err != nil {
			return configError("invalid ability '%c' in %s", order[i], optName)
		}
		counts[a]++
		if counts[a] > MaxAbilityDuplicates {
			return configError("at most %d of each ability are allowed in %s", MaxAbilityDuplicates, optName)
		}
	}
	return nil
}

// ValidateLinkLayout checks that layout describes 8 links like V1V2V3V4D1D2D3D4
func ValidateLinkLayout(layout, optName string) error {
	if len(layout) != 2*LinksPerPlayer {
		return configError("%s must describe %d links like %s", optName, LinksPerPlayer, DefaultLinkLayout)
	}
	for i := 0; i < len(layout); i += 2 {
		if _, _, err := parseLinkPair(layout[i], layout[i+1]); err != nil {
			return configError("%s link %d: %v", optName, i/2+1, err)
		}
	}
	return nil
}

// ValidateGameConfig applies the option rules to every field of config
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return configError("config is required")
	}
	if err := ValidateAbilityOrder(config.Ability1, "ability1"); err != nil {
		return err
	}
	if err := ValidateAbilityOrder(config.Ability2, "ability2"); err != nil {
		return err
	}
	if err := ValidateLinkLayout(config.Link1, "link1"); err != nil {
		return err
	}
	if err := ValidateLinkLayout(config.Link2, "link2"); err != nil {
		return err
	}
	return nil
}

// LoadGameConfig loads a setup from a JSON file. Empty fields take the defaults.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	merged := config.withDefaults()
	if err := ValidateGameConfig(merged); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}
	return merged, nil
}

// ShuffledLayout returns a deterministic permutation of the standard layout for seed
func ShuffledLayout(seed uint64) string {
	pairs := make([]string, 0, LinksPerPlayer)
	for i := 0; i < len(DefaultLinkLayout); i += 2 {
		pairs = append(pairs, DefaultLinkLayout[i:i+2])
	}

	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	return strings.Join(pairs, "")
}

// parseLinkPair decodes one kind letter and one strength digit
func parseLinkPair(kindChar, strengthChar byte) (LinkKind, int, error) {
	var kind LinkKind
	switch kindChar {
	case 'V', 'v':
		kind = Virus
	case 'D', 'd':
		kind = Data
	default:
		return Data, 0, fmt.Errorf("link type must be V or D, got '%c'", kindChar)
	}

	strength := int(strengthChar) - '0'
	if strength < MinStrength || strength > MaxStrength {
		return Data, 0, fmt.Errorf("link strength must be between %d and %d, got '%c'", MinStrength, MaxStrength, strengthChar)
	}
	return kind, strength, nil
}

// setupServerPorts marks the two middle squares of each home row
func (g *Game) setupServerPorts() {
	for _, col := range []int{3, 4} {
		g.board.cell(Position{Row: 0, Col: col}).setServerPortFor(Player1)
		g.board.cell(Position{Row: BoardSize - 1, Col: col}).setServerPortFor(Player2)
	}
}

// StartPosition returns where roster slot of owner is placed at setup.
// Slots 3 and 4 step forward to make room for the server ports.
func StartPosition(owner PlayerID, slot int) Position {
	row := 0
	altRow := 1
	if owner == Player2 {
		row = BoardSize - 1
		altRow = BoardSize - 2
	}
	if slot == 3 || slot == 4 {
		row = altRow
	}
	return Position{Row: row, Col: slot}
}

// setupLinksForPlayer builds owner's links from layout and places them on the board
func (g *Game) setupLinksForPlayer(owner PlayerID, layout string) error {
	if len(layout) != 2*LinksPerPlayer {
		return fatalError("link order must describe exactly %d links", LinksPerPlayer)
	}

	ps := &g.players[owner.index()]
	for slot := 0; slot < LinksPerPlayer; slot++ {
		kind, strength, err := parseLinkPair(layout[2*slot], layout[2*slot+1])
		if err != nil {
			return fatalError("%v", err)
		}

		linkIdx := baseIndex(owner) + slot
		g.links[linkIdx] = NewLink(owner, kind, strength, LabelFor(owner, slot))
		ps.setLinkIndex(slot, linkIdx)
		g.board.cell(StartPosition(owner, slot)).setLinkIndex(linkIdx)
	}
	return nil
}
