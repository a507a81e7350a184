package engine

import "strconv"

// Link is a single virus or data piece controlled by a player
type Link struct {
	owner     PlayerID
	kind      LinkKind
	strength  int
	label     byte
	alive     bool
	knownByP1 bool
	knownByP2 bool
	boosted   bool
	shielded  bool
}

// NewLink builds a live, hidden link
func NewLink(owner PlayerID, kind LinkKind, strength int, label byte) Link {
	return Link{
		owner:    owner,
		kind:     kind,
		strength: strength,
		label:    label,
		alive:    true,
	}
}

// Owner returns the player controlling the link
func (l Link) Owner() PlayerID {
	return l.owner
}

func (l Link) Kind() LinkKind {
	return l.kind
}

func (l Link) Strength() int {
	return l.strength
}

// Label returns the fixed roster letter, a-h for P1 and A-H for P2
func (l Link) Label() byte {
	return l.label
}

// Alive is false once the link has been downloaded
func (l Link) Alive() bool {
	return l.alive
}

func (l Link) Boosted() bool {
	return l.boosted
}

func (l Link) Shielded() bool {
	return l.shielded
}

// String renders the link as kind plus strength, e.g. "V3"
func (l Link) String() string {
	return l.kind.String() + strconv.Itoa(l.strength)
}

// KnownBy reports whether player has seen this link's kind and strength
func (l Link) KnownBy(player PlayerID) bool {
	switch player {
	case Player1:
		return l.knownByP1
	case Player2:
		return l.knownByP2
	}
	return false
}

// VisibleTo reports whether viewer may see the link's kind and strength.
// Owners always see their own links. PlayerNone sees links known to both players.
func (l Link) VisibleTo(viewer PlayerID) bool {
	if viewer == PlayerNone {
		return l.knownByP1 && l.knownByP2
	}
	return l.owner == viewer || l.KnownBy(viewer)
}

// revealTo never revokes knowledge
func (l *Link) revealTo(player PlayerID) {
	switch player {
	case Player1:
		l.knownByP1 = true
	case Player2:
		l.knownByP2 = true
	}
}

func (l *Link) revealToBoth() {
	l.revealTo(Player1)
	l.revealTo(Player2)
}

// resetKnowledge hides the link from both players again. No rule uses it yet.
func (l *Link) resetKnowledge() {
	l.knownByP1 = false
	l.knownByP2 = false
}
