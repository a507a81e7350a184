package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerID(t *testing.T) {
	assert.Equal(t, "P1", Player1.String())
	assert.Equal(t, "none", PlayerNone.String())
	assert.Equal(t, Player2, Player1.Opponent())
	assert.Equal(t, Player1, Player2.Opponent())
	assert.Equal(t, PlayerNone, PlayerNone.Opponent())
	assert.Equal(t, 2, Player2.Number())
	assert.Equal(t, 0, PlayerNone.Number())
	assert.False(t, PlayerID(7).Valid())

	data, err := json.Marshal(struct {
		P PlayerID `json:"p"`
	}{Player2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"P2"}`, string(data))

	var p PlayerID
	require.NoError(t, p.UnmarshalText([]byte("p1")))
	assert.Equal(t, Player1, p)
	assert.Error(t, p.UnmarshalText([]byte("P3")))
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{" left ", Left, false},
		{"right", Right, false},
		{"north", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.want.String(), d.String())
		})
	}
}

func TestDirectionDelta(t *testing.T) {
	p := Position{Row: 3, Col: 3}
	for dir, want := range map[Direction]Position{
		Up:    {Row: 2, Col: 3},
		Down:  {Row: 4, Col: 3},
		Left:  {Row: 3, Col: 2},
		Right: {Row: 3, Col: 4},
	} {
		dr, dc := dir.Delta()
		assert.Equal(t, want, p.Offset(dr, dc), dir.String())
	}
}

func TestLinkKind(t *testing.T) {
	assert.Equal(t, Virus, Data.Flip())
	assert.Equal(t, Data, Virus.Flip())
	assert.Equal(t, "V", Virus.String())
}

func TestBoard(t *testing.T) {
	b := NewBoard()
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := b.At(Position{Row: r, Col: c})
			assert.Equal(t, CellEmpty, cell.Kind())
			assert.Equal(t, -1, cell.LinkIndex())
			assert.False(t, cell.HasFirewall())
		}
	}

	assert.True(t, b.InBounds(Position{Row: 7, Col: 0}))
	assert.False(t, b.InBounds(Position{Row: 8, Col: 0}))
	assert.False(t, b.InBounds(Position{Row: 0, Col: -1}))

	pos := Position{Row: 2, Col: 5}
	b.cell(pos).setLinkIndex(9)
	assert.Equal(t, CellLink, b.At(pos).Kind())
	found, ok := b.find(9)
	assert.True(t, ok)
	assert.Equal(t, pos, found)

	b.cell(pos).setLinkIndex(-1)
	assert.Equal(t, CellEmpty, b.At(pos).Kind())
	_, ok = b.find(9)
	assert.False(t, ok)

	b.cell(pos).setFirewall(Player2)
	assert.Equal(t, Player2, b.At(pos).FirewallOwner())
	b.cell(pos).clearFirewall()
	assert.False(t, b.At(pos).HasFirewall())
	assert.Equal(t, PlayerNone, b.At(pos).FirewallOwner())

	port := b.cell(Position{Row: 0, Col: 3})
	port.setServerPortFor(Player1)
	assert.True(t, port.IsServerPortFor(Player1))
	assert.False(t, port.IsServerPortFor(Player2))
	port.setServerPortFor(Player2)
	assert.False(t, port.IsServerPortFor(Player1), "port flags are exclusive")
	assert.True(t, port.IsServerPort())
}

func TestLinkVisibility(t *testing.T) {
	l := NewLink(Player1, Virus, 3, 'c')
	assert.True(t, l.Alive())
	assert.Equal(t, "V3", l.String())
	assert.True(t, l.VisibleTo(Player1))
	assert.False(t, l.VisibleTo(Player2))
	assert.False(t, l.VisibleTo(PlayerNone))

	l.revealTo(Player2)
	l.revealTo(Player2)
	assert.True(t, l.VisibleTo(Player2))
	assert.False(t, l.KnownBy(Player1), "owner knowledge is implicit")
	assert.False(t, l.VisibleTo(PlayerNone))

	l.revealToBoth()
	assert.True(t, l.VisibleTo(PlayerNone))

	l.resetKnowledge()
	assert.False(t, l.KnownBy(Player2))
	assert.True(t, l.VisibleTo(Player1))
}

func TestPlayerAbilities(t *testing.T) {
	var pa PlayerAbilities
	assert.Equal(t, 0, pa.Remaining())

	require.NoError(t, pa.configure("jjhsW"))
	assert.Equal(t, Jump, pa.AbilityAt(0))
	assert.Equal(t, Jump, pa.AbilityAt(1))
	assert.Equal(t, Swap, pa.AbilityAt(4))
	assert.Equal(t, 5, pa.Remaining())

	pa.markUsed(0)
	assert.True(t, pa.IsUsed(0))
	assert.False(t, pa.IsUsed(1), "duplicates keep their own used flag")
	assert.Equal(t, 4, pa.Remaining())

	roster := pa.Roster()
	require.Len(t, roster, AbilitySlots)
	assert.Equal(t, AbilitySlot{Slot: 1, Code: "J", Name: "Jump", Used: true}, roster[0])

	require.NoError(t, pa.configure(DefaultAbilityOrder))
	assert.False(t, pa.IsUsed(0), "reconfiguring resets used flags")

	for _, bad := range []string{"LFDS", "LFDSPP", "LFDSQ"} {
		err := pa.configure(bad)
		assert.True(t, errors.Is(err, ErrFatal), bad)
	}
	assert.Equal(t, LinkBoost, pa.AbilityAt(0), "failed configure keeps previous cards")
}

func TestPlayerState(t *testing.T) {
	ps := NewPlayerState(Player2)
	assert.Equal(t, Player2, ps.ID())
	assert.Equal(t, 0, ps.LiveLinks())

	ps.setLinkIndex(0, 8)
	ps.setLinkIndex(1, 9)
	ps.incrDownloadedData()
	ps.incrDownloadedVirus()
	ps.incrDownloadedVirus()

	assert.Equal(t, 2, ps.LiveLinks())
	assert.Equal(t, 1, ps.DownloadedData())
	assert.Equal(t, 2, ps.DownloadedVirus())
	assert.Equal(t, 3, ps.TotalDownloaded())
	assert.Equal(t, -1, ps.LinkIndex(7))
}

func TestErrorKinds(t *testing.T) {
	err := abilityError("bad target %d", 3)
	assert.Equal(t, "bad target 3", err.Error())
	assert.True(t, errors.Is(err, ErrAbility))
	assert.False(t, errors.Is(err, ErrFatal))

	cfgErr := configError("nope")
	assert.Equal(t, "config validation: nope", cfgErr.Error())
	assert.True(t, errors.Is(cfgErr, ErrInvalidConfig))

	var engineErr *Error
	require.True(t, errors.As(fatalError("boom"), &engineErr))
	assert.Equal(t, KindFatal, engineErr.Kind)
}
