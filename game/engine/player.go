package engine

// PlayerState tracks a player's roster and download totals
type PlayerState struct {
	id              PlayerID
	downloadedData  int
	downloadedVirus int
	linkIndices     [LinksPerPlayer]int
}

// NewPlayerState builds a player with every roster slot vacated
func NewPlayerState(id PlayerID) PlayerState {
	ps := PlayerState{id: id}
	for i := range ps.linkIndices {
		ps.linkIndices[i] = -1
	}
	return ps
}

func (ps PlayerState) ID() PlayerID {
	return ps.id
}

// DownloadedData counts data links this player has received
func (ps PlayerState) DownloadedData() int {
	return ps.downloadedData
}

// DownloadedVirus counts virus links this player has received
func (ps PlayerState) DownloadedVirus() int {
	return ps.downloadedVirus
}

func (ps PlayerState) TotalDownloaded() int {
	return ps.downloadedData + ps.downloadedVirus
}

// LinkIndex returns the link handle in roster slot, or -1 once it was downloaded
func (ps PlayerState) LinkIndex(slot int) int {
	return ps.linkIndices[slot]
}

// LiveLinks counts roster slots still holding a link
func (ps PlayerState) LiveLinks() int {
	n := 0
	for _, idx := range ps.linkIndices {
		if idx >= 0 {
			n++
		}
	}
	return n
}

func (ps *PlayerState) incrDownloadedData() {
	ps.downloadedData++
}

func (ps *PlayerState) incrDownloadedVirus() {
	ps.downloadedVirus++
}

func (ps *PlayerState) setLinkIndex(slot, index int) {
	ps.linkIndices[slot] = index
}

// AbilitySlot describes one configured ability card for renderers
type AbilitySlot struct {
	Slot int    `json:"slot"` // 1-based, as typed by players
	Code string `json:"code"`
	Name string `json:"name"`
	Used bool   `json:"used"`
}

// PlayerAbilities stores the five ability cards of a player. Slots holding the same
// code share one Ability value but keep independent used flags.
type PlayerAbilities struct {
	slots [AbilitySlots]Ability
	used  [AbilitySlots]bool
}

// configure builds the slots from a 5-character order string. The caller is expected
// to have validated duplicates; anything else malformed is fatal.
func (pa *PlayerAbilities) configure(order string) error {
	if len(order) != AbilitySlots {
		return fatalError("ability order must be exactly %d characters long", AbilitySlots)
	}

	var slots [AbilitySlots]Ability
	for i := 0; i < AbilitySlots; i++ {
		a, err := ParseAbility(order[i])
		if err != nil {
			return fatalError("unknown ability code: %c", order[i])
		}
		slots[i] = a
	}

	pa.slots = slots
	pa.used = [AbilitySlots]bool{}
	return nil
}

// AbilityAt returns the ability in slot (0-based). An unconfigured slot returns the zero Ability.
func (pa PlayerAbilities) AbilityAt(slot int) Ability {
	return pa.slots[slot]
}

// IsUsed reports whether slot (0-based) was already played
func (pa PlayerAbilities) IsUsed(slot int) bool {
	return pa.used[slot]
}

func (pa *PlayerAbilities) markUsed(slot int) {
	pa.used[slot] = true
}

// Remaining counts configured slots that have not been used
func (pa PlayerAbilities) Remaining() int {
	count := 0
	for i := 0; i < AbilitySlots; i++ {
		if pa.slots[i].Valid() && !pa.used[i] {
			count++
		}
	}
	return count
}

// Roster lists every slot with its code, display name and used flag
func (pa PlayerAbilities) Roster() []AbilitySlot {
	roster := make([]AbilitySlot, 0, AbilitySlots)
	for i := 0; i < AbilitySlots; i++ {
		a := pa.slots[i]
		roster = append(roster, AbilitySlot{
			Slot: i + 1,
			Code: a.String(),
			Name: a.Name(),
			Used: pa.used[i],
		})
	}
	return roster
}
