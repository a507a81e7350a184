package engine

import (
	"github.com/rs/zerolog"
)

// Engine provides the query and mutation surface drivers use to run a match
type Engine interface {
	// Queries
	CurrentPlayer() PlayerID
	Board() Board
	At(pos Position) Cell
	Link(idx int) Link
	LinkPosition(idx int) (Position, bool)
	Player(id PlayerID) PlayerState
	Abilities(id PlayerID) PlayerAbilities
	IsOver() bool
	Winner() PlayerID
	Turn() int
	History() []TurnRecord
	View(viewer PlayerID) GameView

	// Actions
	MoveLink(label byte, dir Direction) MoveResult
	UseAbility(slot int, target Target) error
}

// Game is the root aggregate of a match. It implements Engine and AbilityContext.
type Game struct {
	config    GameConfig
	board     Board
	links     [TotalLinks]Link
	players   [2]PlayerState
	abilities [2]PlayerAbilities

	current             PlayerID
	jumpReady           [2]bool
	swapReady           [2]bool
	abilityUsedThisTurn bool

	turn    int
	history []TurnRecord
	logger  zerolog.Logger
}

var (
	_ Engine         = (*Game)(nil)
	_ AbilityContext = (*Game)(nil)
)

// Option configures optional Game collaborators
type Option func(*Game)

// WithLogger sets the logger used for turn and game-over events
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// NewGame builds a match ready for Player 1's first turn. A nil cfg or empty
// fields fall back to DefaultGameConfig. Malformed orders or layouts are fatal.
func NewGame(cfg *GameConfig, opts ...Option) (*Game, error) {
	cfg = cfg.withDefaults()

	g := &Game{
		config:  *cfg,
		board:   NewBoard(),
		players: [2]PlayerState{NewPlayerState(Player1), NewPlayerState(Player2)},
		current: Player1,
		turn:    1,
		history: []TurnRecord{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.setupServerPorts()

	if err := g.abilities[0].configure(cfg.Ability1); err != nil {
		return nil, err
	}
	if err := g.abilities[1].configure(cfg.Ability2); err != nil {
		return nil, err
	}
	if err := g.setupLinksForPlayer(Player1, cfg.Link1); err != nil {
		return nil, err
	}
	if err := g.setupLinksForPlayer(Player2, cfg.Link2); err != nil {
		return nil, err
	}

	g.logger.Debug().
		Str("ability1", cfg.Ability1).
		Str("ability2", cfg.Ability2).
		Msg("game created")
	return g, nil
}

// Config returns the setup the game was built from
func (g *Game) Config() GameConfig {
	return g.config
}

// CurrentPlayer returns whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	return g.current
}

// Board returns a copy of the board
func (g *Game) Board() Board {
	return g.board
}

// At returns a copy of the cell at pos, which must be in bounds
func (g *Game) At(pos Position) Cell {
	return g.board.At(pos)
}

// Link returns a copy of the link with handle idx. Handles outside 0-15 return
// the zero Link, which reports Alive() false.
func (g *Game) Link(idx int) Link {
	if idx < 0 || idx >= TotalLinks {
		return Link{}
	}
	return g.links[idx]
}

// LinkByLabel resolves a roster label to a copy of its link
func (g *Game) LinkByLabel(label byte) (Link, bool) {
	idx, _, ok := LinkIndexForLabel(label)
	if !ok {
		return Link{}, false
	}
	return g.links[idx], true
}

// LinkPosition finds where a live link sits on the board
func (g *Game) LinkPosition(idx int) (Position, bool) {
	if idx < 0 || idx >= TotalLinks || !g.links[idx].alive {
		return Position{}, false
	}
	return g.board.find(idx)
}

// Player returns a copy of id's roster and counters. PlayerNone and other
// unseated ids get an empty state with every roster slot vacated.
func (g *Game) Player(id PlayerID) PlayerState {
	if !id.Valid() {
		return NewPlayerState(PlayerNone)
	}
	return g.players[id.index()]
}

// Abilities returns a copy of id's ability cards. Unseated ids get no cards.
func (g *Game) Abilities(id PlayerID) PlayerAbilities {
	if !id.Valid() {
		return PlayerAbilities{}
	}
	return g.abilities[id.index()]
}

// AbilityUsedThisTurn reports whether the current player already played a card this turn
func (g *Game) AbilityUsedThisTurn() bool {
	return g.abilityUsedThisTurn
}

// JumpReady reports whether player's next move steps two squares
func (g *Game) JumpReady(player PlayerID) bool {
	return player.Valid() && g.jumpReady[player.index()]
}

// SwapReady reports whether player's next move may swap two of their own links
func (g *Game) SwapReady(player PlayerID) bool {
	return player.Valid() && g.swapReady[player.index()]
}

// Turn returns the 1-based number of the turn in progress
func (g *Game) Turn() int {
	return g.turn
}

// History returns a copy of the accepted actions so far
func (g *Game) History() []TurnRecord {
	out := make([]TurnRecord, len(g.history))
	copy(out, g.history)
	return out
}

// IsOver reports whether a winner has been decided
func (g *Game) IsOver() bool {
	return g.winnerIfAny() != PlayerNone
}

// Winner returns the winning player or PlayerNone while the game is running
func (g *Game) Winner() PlayerID {
	return g.winnerIfAny()
}

// winnerIfAny reads the download counters. Losing on viruses is checked first.
func (g *Game) winnerIfAny() PlayerID {
	p1 := g.players[0]
	p2 := g.players[1]

	switch {
	case p1.downloadedVirus >= WinThreshold:
		return Player2
	case p2.downloadedVirus >= WinThreshold:
		return Player1
	case p1.downloadedData >= WinThreshold:
		return Player1
	case p2.downloadedData >= WinThreshold:
		return Player2
	}
	return PlayerNone
}

// UseAbility plays the current player's card in slot (0-based) against target.
// The turn does not pass; the player still has to move.
func (g *Game) UseAbility(slot int, target Target) error {
	if g.IsOver() {
		return abilityError("game is over")
	}
	if g.abilityUsedThisTurn {
		return abilityError("ability already used this turn")
	}
	if slot < 0 || slot >= AbilitySlots {
		return abilityError("ability id must be between 1 and %d", AbilitySlots)
	}

	user := g.current
	pa := &g.abilities[user.index()]
	if pa.IsUsed(slot) {
		return abilityError("ability card already used")
	}

	ability := pa.AbilityAt(slot)
	if err := ability.Use(g, user, target); err != nil {
		return err
	}

	pa.markUsed(slot)
	g.abilityUsedThisTurn = true

	rec := TurnRecord{
		Turn:    g.turn,
		Player:  user,
		Action:  "ability",
		Slot:    slot + 1,
		Ability: ability.String(),
	}
	if target.HasLabel {
		rec.Label = string(target.Label)
	}
	g.history = append(g.history, rec)

	g.logger.Debug().
		Int("turn", g.turn).
		Stringer("player", user).
		Str("ability", ability.Name()).
		Msg("ability used")
	g.logIfOver()
	return nil
}

// endTurn runs the bookkeeping shared by every accepted move
func (g *Game) endTurn(mover PlayerID, label byte, dir Direction, outcome MoveOutcome) MoveResult {
	idx := mover.index()
	g.jumpReady[idx] = false
	g.swapReady[idx] = false
	g.abilityUsedThisTurn = false
	g.current = mover.Opponent()

	g.history = append(g.history, TurnRecord{
		Turn:      g.turn,
		Player:    mover,
		Action:    "move",
		Label:     string(label),
		Direction: dir.String(),
		Outcome:   outcome,
	})

	g.logger.Debug().
		Int("turn", g.turn).
		Stringer("player", mover).
		Str("label", string(label)).
		Str("outcome", string(outcome)).
		Msg("turn completed")
	g.turn++

	winner := g.winnerIfAny()
	g.logIfOver()
	return MoveResult{
		OK:       true,
		GameOver: winner != PlayerNone,
		Winner:   winner,
		Outcome:  outcome,
	}
}

func (g *Game) logIfOver() {
	if w := g.winnerIfAny(); w != PlayerNone {
		g.logger.Info().
			Stringer("winner", w).
			Int("turn", g.turn).
			Msg("game over")
	}
}
