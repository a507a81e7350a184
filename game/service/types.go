package service

import (
	"time"

	"github.com/wricardo/raiinet/game/engine"
)

// Event types carried by GameEvent
const (
	EventMove     = "move"
	EventAbility  = "ability"
	EventDownload = "download"
	EventGameOver = "game_over"
)

// SessionInfo provides public information about a match. Link layouts and
// ability orders stay hidden; use GetView for a player's perspective.
type SessionInfo struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Turn           int             `json:"turn"`
	Current        engine.PlayerID `json:"current"`
	GameOver       bool            `json:"game_over"`
	Winner         engine.PlayerID `json:"winner"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success  bool               `json:"success"`
	Outcome  engine.MoveOutcome `json:"outcome"`
	Message  string             `json:"message"`
	GameOver bool               `json:"game_over"`
	Winner   engine.PlayerID    `json:"winner"`
	View     *engine.GameView   `json:"view"` // from the mover's perspective
	Events   []GameEvent        `json:"events,omitempty"`
}

// AbilityResult contains the result of playing an ability card
type AbilityResult struct {
	Success bool             `json:"success"`
	Ability string           `json:"ability"`
	Message string           `json:"message"`
	View    *engine.GameView `json:"view"`
	Events  []GameEvent      `json:"events,omitempty"`
}

// GameEvent represents something observable that happened during play
type GameEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Player    engine.PlayerID `json:"player"`
	Turn      int             `json:"turn"`
	Timestamp time.Time       `json:"timestamp"`
}

// Snapshot is what a Broadcaster receives after every accepted action. Views
// are computed per viewer so no consumer ever needs access to the game itself.
type Snapshot struct {
	SessionID string                              `json:"session_id"`
	Views     map[engine.PlayerID]engine.GameView `json:"views"`
	Events    []GameEvent                         `json:"events,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a match setup file
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Ability1    string `json:"ability1"`
	Ability2    string `json:"ability2"`
}
