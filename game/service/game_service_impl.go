package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wricardo/raiinet/game/engine"
)

var (
	// ErrConfigNotFound is returned by ConfigManager implementations for unknown setups
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrNoConfigManager is returned by setup operations when the service has no ConfigManager
	ErrNoConfigManager = errors.New("no setup directory configured")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	logger      zerolog.Logger
	now         func() time.Time
	mu          sync.RWMutex
}

// Option configures optional collaborators of the game service
type Option func(*gameServiceImpl)

// WithBroadcaster publishes a snapshot after every accepted move or ability
func WithBroadcaster(b Broadcaster) Option {
	return func(s *gameServiceImpl) {
		s.broadcaster = b
	}
}

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = l
	}
}

// NewGameService creates a new game service instance. configs may be nil, in
// which case only CreateSessionWithConfig and the default setup are available.
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new match from a named setup, or the default setup when name is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	if s.configs == nil {
		if configName != "" {
			return nil, fmt.Errorf("failed to load config %s: %w", configName, ErrNoConfigManager)
		}
	} else if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	return s.CreateSessionWithConfig(ctx, config)
}

// CreateSessionWithConfig creates a new match from an explicit setup
func (s *gameServiceImpl) CreateSessionWithConfig(ctx context.Context, config *engine.GameConfig) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config != nil {
		if err := engine.ValidateGameConfig(config); err != nil {
			return nil, err
		}
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().Str("session", session.ID).Str("config", configName(session)).Msg("session created")
	return s.sessionInfo(session), nil
}

// GetSession retrieves session information. It touches the access time, so it
// takes the write lock like the other calls that update a session.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move moves one of the current player's links
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, label byte, dir engine.Direction) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	mover := g.CurrentPlayer()
	before := downloadCounts(g)
	turn := g.Turn()

	res := g.MoveLink(label, dir)
	view := g.View(mover)
	result := &MoveResult{
		Success:  res.OK,
		Outcome:  res.Outcome,
		GameOver: res.GameOver,
		Winner:   res.Winner,
		View:     &view,
	}

	if !res.OK {
		result.Message = "Invalid Move: " + res.Reason
		s.logger.Debug().
			Str("session", sess.ID).
			Str("label", string(label)).
			Str("reason", res.Reason).
			Msg("move rejected")
		return result, nil
	}

	result.Message = fmt.Sprintf("%s moved %c %s (%s)", mover, label, dir, res.Outcome)
	result.Events = append(result.Events, s.newEvent(EventMove, mover, turn, result.Message))
	result.Events = append(result.Events, s.outcomeEvents(g, before, turn)...)

	s.publish(sess, result.Events)
	return result, nil
}

// UseAbility plays one of the current player's ability cards. slot is 0-based.
func (s *gameServiceImpl) UseAbility(ctx context.Context, sessionID string, slot int, target engine.Target) (*AbilityResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	user := g.CurrentPlayer()
	before := downloadCounts(g)
	turn := g.Turn()

	if err := g.UseAbility(slot, target); err != nil {
		return nil, err
	}

	ability := g.Abilities(user).AbilityAt(slot)
	view := g.View(user)
	result := &AbilityResult{
		Success: true,
		Ability: ability.Name(),
		Message: fmt.Sprintf("%s used %s", user, ability.Name()),
		View:    &view,
	}
	result.Events = append(result.Events, s.newEvent(EventAbility, user, turn, result.Message))
	result.Events = append(result.Events, s.outcomeEvents(g, before, turn)...)

	s.publish(sess, result.Events)
	return result, nil
}

// GetView returns the match as viewer sees it. PlayerNone gives the spectator view.
func (s *gameServiceImpl) GetView(ctx context.Context, sessionID string, viewer engine.PlayerID) (*engine.GameView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	view := sess.Game.View(viewer)
	return &view, nil
}

// GetMoveHistory returns paginated turn history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Game.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var turns []engine.TurnRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = history[start:end]
	}

	if turns == nil {
		turns = []engine.TurnRecord{}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available match setups
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if s.configs == nil {
		return nil, ErrNoConfigManager
	}
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific match setup
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if s.configs == nil {
		return nil, ErrNoConfigManager
	}
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a match setup to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if s.configs == nil {
		return ErrNoConfigManager
	}
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	g := sess.Game
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configName(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Turn:           g.Turn(),
		Current:        g.CurrentPlayer(),
		GameOver:       g.IsOver(),
		Winner:         g.Winner(),
	}
}

func configName(sess *Session) string {
	if sess.Config == nil || sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

type counts [2][2]int

func downloadCounts(g *engine.Game) counts {
	var c counts
	for i, p := range []engine.PlayerID{engine.Player1, engine.Player2} {
		ps := g.Player(p)
		c[i] = [2]int{ps.DownloadedData(), ps.DownloadedVirus()}
	}
	return c
}

// outcomeEvents reports downloads and game over caused by the last action
func (s *gameServiceImpl) outcomeEvents(g *engine.Game, before counts, turn int) []GameEvent {
	var events []GameEvent
	after := downloadCounts(g)
	for i, p := range []engine.PlayerID{engine.Player1, engine.Player2} {
		if d := after[i][0] - before[i][0]; d > 0 {
			events = append(events, s.newEvent(EventDownload, p, turn, fmt.Sprintf("%s downloaded %d data", p, d)))
		}
		if v := after[i][1] - before[i][1]; v > 0 {
			events = append(events, s.newEvent(EventDownload, p, turn, fmt.Sprintf("%s downloaded %d virus", p, v)))
		}
	}
	if w := g.Winner(); w != engine.PlayerNone {
		events = append(events, s.newEvent(EventGameOver, w, turn, fmt.Sprintf("Player %d wins", w.Number())))
	}
	return events
}

func (s *gameServiceImpl) newEvent(typ string, player engine.PlayerID, turn int, msg string) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   msg,
		Player:    player,
		Turn:      turn,
		Timestamp: s.now(),
	}
}

// publish hands per-viewer snapshots to the broadcaster. Called with s.mu held.
func (s *gameServiceImpl) publish(sess *Session, events []GameEvent) {
	if s.broadcaster == nil {
		return
	}
	views := make(map[engine.PlayerID]engine.GameView, 3)
	for _, viewer := range []engine.PlayerID{engine.PlayerNone, engine.Player1, engine.Player2} {
		views[viewer] = sess.Game.View(viewer)
	}
	s.broadcaster.Publish(Snapshot{
		SessionID: sess.ID,
		Views:     views,
		Events:    events,
	})
}
