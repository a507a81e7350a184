package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/raiinet/game/engine"
	"github.com/wricardo/raiinet/game/service"
	"github.com/wricardo/raiinet/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	g, err := engine.NewGame(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Game:           g,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return errors.New("session not found")
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	aggressive := engine.DefaultGameConfig()
	aggressive.Name = "aggressive"
	aggressive.Ability1 = "LLDDF"

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic":    engine.DefaultGameConfig(),
			"aggressive": aggressive,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	cfg, ok := m.configs[name]
	if !ok {
		return nil, service.ErrConfigNotFound
	}
	return cfg, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var out []*service.ConfigInfo
	for id, cfg := range m.configs {
		out = append(out, &service.ConfigInfo{ConfigID: id, Name: cfg.Name, Ability1: cfg.Ability1, Ability2: cfg.Ability2})
	}
	return out, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

// recordingBroadcaster collects published snapshots
type recordingBroadcaster struct {
	mu        sync.Mutex
	snapshots []service.Snapshot
}

func (b *recordingBroadcaster) Publish(s service.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, s)
}

func newTestService(t *testing.T, opts ...service.Option) service.GameService {
	t.Helper()
	return service.NewGameService(NewMockSessionManager(), NewMockConfigManager(), opts...)
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	info, err := svc.CreateSession(ctx, "aggressive")
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "aggressive", info.ConfigName)
	assert.Equal(t, engine.Player1, info.Current)
	assert.Equal(t, 1, info.Turn)
	assert.False(t, info.GameOver)

	view, err := svc.GetView(ctx, info.ID, engine.Player1)
	require.NoError(t, err)
	assert.Equal(t, "L", view.Panel(engine.Player1).Abilities[1].Code)
	assert.Equal(t, "D", view.Panel(engine.Player1).Abilities[2].Code)

	info, err = svc.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "default", info.ConfigName)

	_, err = svc.CreateSession(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "Available configs")
}

func TestGameService_CreateSessionWithConfig(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cfg := engine.DefaultGameConfig()
	cfg.Ability2 = "HHHLF"
	_, err := svc.CreateSessionWithConfig(ctx, cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)

	info, err := svc.CreateSessionWithConfig(ctx, nil)
	require.NoError(t, err)
	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, info.ID, sessions[0].ID)
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	bc := &recordingBroadcaster{}
	svc := newTestService(t, service.WithBroadcaster(bc))

	info, err := svc.CreateSession(ctx, "classic")
	require.NoError(t, err)

	res, err := svc.Move(ctx, info.ID, 'a', engine.Up)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Invalid Move")
	assert.Empty(t, bc.snapshots, "rejected moves are not published")

	res, err = svc.Move(ctx, info.ID, 'a', engine.Down)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, engine.OutcomeMoved, res.Outcome)
	require.Len(t, res.Events, 1)
	assert.Equal(t, service.EventMove, res.Events[0].Type)
	assert.NotEmpty(t, res.Events[0].ID)
	assert.Equal(t, engine.Player1, res.View.Viewer)
	assert.Equal(t, engine.Player2, res.View.Current)

	require.Len(t, bc.snapshots, 1)
	snap := bc.snapshots[0]
	assert.Equal(t, info.ID, snap.SessionID)
	assert.Len(t, snap.Views, 3)
	assert.Equal(t, "?", snap.Views[engine.Player2].Panel(engine.Player1).Links[0].Value)
	assert.Equal(t, "V1", snap.Views[engine.Player1].Panel(engine.Player1).Links[0].Value)

	_, err = svc.Move(ctx, "nope", 'a', engine.Down)
	assert.Error(t, err)
}

func TestGameService_UseAbilityAndGameOver(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	info, err := svc.CreateSession(ctx, "classic")
	require.NoError(t, err)

	res, err := svc.UseAbility(ctx, info.ID, 2, engine.LabelTarget('E'))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Download", res.Ability)
	types := []string{}
	for _, e := range res.Events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{service.EventAbility, service.EventDownload}, types)
	assert.Equal(t, engine.DownloadedLink, res.View.Panel(engine.Player2).Links[4].Value)
	assert.Equal(t, 1, res.View.Panel(engine.Player1).DownloadedData)

	_, err = svc.UseAbility(ctx, info.ID, 3, engine.LabelTarget('A'))
	assert.ErrorIs(t, err, engine.ErrAbility)

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.Player1, got.Current, "abilities do not pass the turn")
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	info, err := svc.CreateSession(ctx, "classic")
	require.NoError(t, err)

	moves := []struct {
		label byte
		dir   engine.Direction
	}{
		{'a', engine.Down}, {'A', engine.Up}, {'b', engine.Down}, {'B', engine.Up}, {'c', engine.Down},
	}
	for _, m := range moves {
		res, err := svc.Move(ctx, info.ID, m.label, m.dir)
		require.NoError(t, err)
		require.True(t, res.Success)
	}

	tests := []struct {
		name       string
		opts       service.HistoryOptions
		wantLabels []string
		wantNext   bool
		wantPages  int
	}{
		{"defaults are newest first", service.HistoryOptions{}, []string{"c", "B", "b", "A", "a"}, false, 1},
		{"ascending page 1", service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, []string{"a", "A"}, true, 3},
		{"ascending last page", service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"}, []string{"c"}, false, 3},
		{"descending page 2", service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"}, []string{"b", "A"}, true, 3},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, []string{}, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			require.NoError(t, err)
			labels := []string{}
			for _, turn := range resp.Turns {
				labels = append(labels, turn.Label)
			}
			assert.Equal(t, tt.wantLabels, labels)
			assert.Equal(t, 5, resp.TotalTurns)
			assert.Equal(t, tt.wantNext, resp.HasNext)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
		})
	}
}

func TestGameService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(ctx, info.ID))

	_, err = svc.GetSession(ctx, info.ID)
	assert.Error(t, err)
	assert.Error(t, svc.DeleteSession(ctx, info.ID))
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	configs, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	custom := engine.DefaultGameConfig()
	custom.Name = "custom"
	require.NoError(t, svc.SaveConfig(ctx, "custom", custom))

	loaded, err := svc.LoadConfig(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", loaded.Name)
}

func TestGameService_WithoutConfigManager(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), nil)

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "default", info.ConfigName)

	_, err = svc.CreateSession(ctx, "classic")
	assert.ErrorIs(t, err, service.ErrNoConfigManager)
	_, err = svc.ListConfigs(ctx)
	assert.ErrorIs(t, err, service.ErrNoConfigManager)
}

func TestGameService_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), nil)

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch j % 3 {
				case 0:
					_, err := svc.GetSession(ctx, info.ID)
					assert.NoError(t, err)
				case 1:
					sessions, err := svc.ListSessions(ctx)
					assert.NoError(t, err)
					assert.Len(t, sessions, 1)
				default:
					_, err := svc.GetView(ctx, info.ID, engine.PlayerNone)
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Wait()

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, got.LastAccessedAt.Before(got.CreatedAt))
}
