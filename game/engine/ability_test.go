package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the primitives an ability invokes
type recorder struct {
	calls []string
}

func (r *recorder) record(format string, args ...any) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return nil
}

func (r *recorder) ApplyDownload(idx int, receiver PlayerID) error {
	return r.record("download %d %s", idx, receiver)
}

func (r *recorder) ApplyFirewall(pos Position, owner PlayerID) error {
	return r.record("firewall %s %s", pos, owner)
}

func (r *recorder) ApplyBoost(idx int) error { return r.record("boost %d", idx) }

func (r *recorder) ApplyScan(idx int, viewer PlayerID) error {
	return r.record("scan %d %s", idx, viewer)
}

func (r *recorder) ApplyPolarize(idx int) error { return r.record("polarize %d", idx) }

func (r *recorder) ApplyShield(idx int) error { return r.record("shield %d", idx) }

func (r *recorder) ApplyJump(user PlayerID) error { return r.record("jump %s", user) }

func (r *recorder) ApplySwap(user PlayerID) error { return r.record("swap %s", user) }

func TestAbility_Use(t *testing.T) {
	pos := PositionTarget(Position{Row: 3, Col: 4})
	both := Target{Label: 'a', HasLabel: true, Pos: Position{Row: 1, Col: 1}, HasPos: true}

	tests := []struct {
		name     string
		ability  Ability
		user     PlayerID
		target   Target
		wantCall string
		wantErr  bool
	}{
		{"boost own", LinkBoost, Player1, LabelTarget('c'), "boost 2", false},
		{"boost opponent", LinkBoost, Player1, LabelTarget('C'), "", true},
		{"boost without label", LinkBoost, Player1, Target{}, "", true},
		{"boost with position", LinkBoost, Player1, both, "", true},
		{"firewall", Firewall, Player2, pos, "firewall (3,4) P2", false},
		{"firewall with label", Firewall, Player2, LabelTarget('A'), "", true},
		{"firewall out of bounds", Firewall, Player1, PositionTarget(Position{Row: 8, Col: 0}), "", true},
		{"download opponent", Download, Player1, LabelTarget('H'), "download 15 P1", false},
		{"download own", Download, Player2, LabelTarget('H'), "", true},
		{"polarize own", Polarize, Player1, LabelTarget('b'), "polarize 1", false},
		{"polarize opponent", Polarize, Player1, LabelTarget('B'), "polarize 9", false},
		{"scan", Scan, Player2, LabelTarget('e'), "scan 4 P2", false},
		{"scan bad label", Scan, Player2, LabelTarget('x'), "", true},
		{"swap", Swap, Player1, Target{}, "swap P1", false},
		{"swap with target", Swap, Player1, LabelTarget('a'), "", true},
		{"jump", Jump, Player2, Target{}, "jump P2", false},
		{"jump with position", Jump, Player2, pos, "", true},
		{"shield own", Shield, Player2, LabelTarget('G'), "shield 14", false},
		{"shield opponent", Shield, Player2, LabelTarget('g'), "", true},
		{"invalid user", Scan, PlayerNone, LabelTarget('a'), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := tt.ability.Use(rec, tt.user, tt.target)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrAbility)
				assert.Empty(t, rec.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantCall}, rec.calls)
		})
	}
}

func TestAbility_UnconfiguredIsFatal(t *testing.T) {
	err := NoAbility.Use(&recorder{}, Player1, Target{})
	assert.ErrorIs(t, err, ErrFatal)
}

func TestParseAbility(t *testing.T) {
	for _, a := range AllAbilities {
		upper, err := ParseAbility(a.Code())
		require.NoError(t, err)
		assert.Equal(t, a, upper)

		lower, err := ParseAbility(a.Code() + 'a' - 'A')
		require.NoError(t, err)
		assert.Equal(t, a, lower)
	}

	_, err := ParseAbility('X')
	assert.ErrorIs(t, err, ErrAbility)
	assert.Equal(t, "Link Boost", LinkBoost.Name())
	assert.Equal(t, "W", Swap.String())
	assert.Equal(t, "?", NoAbility.String())
	assert.Equal(t, "none", NoAbility.Name())
}

func TestGameAbilities(t *testing.T) {
	t.Run("download", func(t *testing.T) {
		g := newTestGame(t, nil)
		require.NoError(t, g.UseAbility(2, LabelTarget('E')))

		E, _ := g.LinkByLabel('E')
		assert.False(t, E.Alive())
		assert.True(t, E.KnownBy(Player1))
		assert.True(t, E.KnownBy(Player2))
		assert.Equal(t, 1, g.Player(Player1).DownloadedData())
		assert.Equal(t, -1, g.Player(Player2).LinkIndex(4))
		assert.Equal(t, CellEmpty, g.At(Position{Row: 6, Col: 4}).Kind())
		requireConsistent(t, g)
	})

	t.Run("firewall", func(t *testing.T) {
		g := newTestGame(t, nil)
		require.NoError(t, g.UseAbility(1, PositionTarget(Position{Row: 3, Col: 3})))
		cell := g.At(Position{Row: 3, Col: 3})
		assert.True(t, cell.HasFirewall())
		assert.Equal(t, Player1, cell.FirewallOwner())
	})

	t.Run("scan reveals to the caster only", func(t *testing.T) {
		g := newTestGame(t, nil)
		require.NoError(t, g.UseAbility(3, LabelTarget('A')))
		A, _ := g.LinkByLabel('A')
		assert.True(t, A.KnownBy(Player1))
		assert.False(t, A.VisibleTo(PlayerNone))
	})

	t.Run("polarize", func(t *testing.T) {
		g := newTestGame(t, nil)
		require.NoError(t, g.UseAbility(4, LabelTarget('A')))
		A, _ := g.LinkByLabel('A')
		assert.Equal(t, Data, A.Kind())
		assert.Equal(t, 1, A.Strength())
	})
}
