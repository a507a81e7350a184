package engine

import (
	"fmt"
	"strings"
)

// PlayerID identifies which player a piece or event belongs to
type PlayerID int

const (
	PlayerNone PlayerID = iota
	Player1
	Player2
)

// LinkKind differentiates between data and virus links
type LinkKind int

const (
	Data LinkKind = iota
	Virus
)

// CellKind describes the content of a board cell
type CellKind int

const (
	CellEmpty CellKind = iota
	CellLink
)

// Direction is a movement direction for links on the board
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

const (
	// Board and roster dimensions
	BoardSize      = 8
	LinksPerPlayer = 8
	TotalLinks     = 2 * LinksPerPlayer
	AbilitySlots   = 5

	// Rule constants
	WinThreshold         = 4
	MaxAbilityDuplicates = 2
	MinStrength          = 1
	MaxStrength          = 4
	BoostedStep          = 2

	DefaultAbilityOrder = "LFDSP"
	DefaultLinkLayout   = "V1V2V3V4D1D2D3D4"
)

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveOutcome tells which branch of the move resolver handled a move
type MoveOutcome string

const (
	OutcomeRejected       MoveOutcome = "rejected"
	OutcomeMoved          MoveOutcome = "moved"
	OutcomeSelfDownload   MoveOutcome = "self_download"
	OutcomeServerPort     MoveOutcome = "server_port"
	OutcomeSwapped        MoveOutcome = "swapped"
	OutcomeBattleWon      MoveOutcome = "battle_won"
	OutcomeBattleLost     MoveOutcome = "battle_lost"
	OutcomeFirewallCaught MoveOutcome = "firewall_caught"
)

// MoveResult summarizes the outcome of a MoveLink call
type MoveResult struct {
	OK       bool        `json:"ok"`
	GameOver bool        `json:"game_over"`
	Winner   PlayerID    `json:"winner"`
	Outcome  MoveOutcome `json:"outcome"`
	Reason   string      `json:"reason,omitempty"`
}

// TurnRecord represents a single accepted action in the game history
type TurnRecord struct {
	Turn      int         `json:"turn"`
	Player    PlayerID    `json:"player"`
	Action    string      `json:"action"` // "move" or "ability"
	Label     string      `json:"label,omitempty"`
	Direction string      `json:"direction,omitempty"`
	Slot      int         `json:"slot,omitempty"`
	Ability   string      `json:"ability,omitempty"`
	Outcome   MoveOutcome `json:"outcome,omitempty"`
}

func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	}
	return "none"
}

// Valid reports whether p is one of the two seated players
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other seated player
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return PlayerNone
}

// index converts a seated player into an index into per-player arrays
func (p PlayerID) index() int {
	if p == Player2 {
		return 1
	}
	return 0
}

// Number returns 1 or 2 for seated players and 0 otherwise
func (p PlayerID) Number() int {
	if !p.Valid() {
		return 0
	}
	return p.index() + 1
}

func (k LinkKind) String() string {
	if k == Virus {
		return "V"
	}
	return "D"
}

// Flip returns the opposite kind
func (k LinkKind) Flip() LinkKind {
	if k == Virus {
		return Data
	}
	return Virus
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Delta returns the unit row and column offsets for d
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// ParseDirection converts "up", "down", "left" or "right" into a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid direction: %s", s)
}

// Offset returns the position moved by dr rows and dc columns
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// MarshalText renders players as "P1", "P2" or "none" in JSON payloads
func (p PlayerID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (p *PlayerID) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "P1", "1":
		*p = Player1
	case "P2", "2":
		*p = Player2
	case "NONE", "", "0":
		*p = PlayerNone
	default:
		return fmt.Errorf("invalid player: %s", text)
	}
	return nil
}
