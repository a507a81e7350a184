package engine

// Cell stores the contents and flags for a single board square
type Cell struct {
	kind          CellKind
	linkIndex     int
	hasFirewall   bool
	firewallOwner PlayerID
	serverPortP1  bool
	serverPortP2  bool
}

// Board is the 8x8 grid of cells
type Board struct {
	cells [BoardSize][BoardSize]Cell
}

func newCell() Cell {
	return Cell{kind: CellEmpty, linkIndex: -1, firewallOwner: PlayerNone}
}

// Kind returns whether a link occupies the cell
func (c Cell) Kind() CellKind {
	return c.kind
}

// LinkIndex returns the handle of the occupying link, or -1 when empty
func (c Cell) LinkIndex() int {
	return c.linkIndex
}

// HasFirewall reports whether a firewall was placed on the cell
func (c Cell) HasFirewall() bool {
	return c.hasFirewall
}

// FirewallOwner returns the player owning the firewall, PlayerNone if there is none
func (c Cell) FirewallOwner() PlayerID {
	return c.firewallOwner
}

// IsServerPortFor reports whether the cell is one of player's server ports
func (c Cell) IsServerPortFor(player PlayerID) bool {
	switch player {
	case Player1:
		return c.serverPortP1
	case Player2:
		return c.serverPortP2
	}
	return false
}

// IsServerPort reports whether the cell is a server port of either player
func (c Cell) IsServerPort() bool {
	return c.serverPortP1 || c.serverPortP2
}

// setLinkIndex stores a link handle; a negative index empties the cell
func (c *Cell) setLinkIndex(index int) {
	if index < 0 {
		c.clearLink()
		return
	}
	c.linkIndex = index
	c.kind = CellLink
}

func (c *Cell) clearLink() {
	c.linkIndex = -1
	c.kind = CellEmpty
}

func (c *Cell) setFirewall(owner PlayerID) {
	c.hasFirewall = true
	c.firewallOwner = owner
}

func (c *Cell) clearFirewall() {
	c.hasFirewall = false
	c.firewallOwner = PlayerNone
}

// setServerPortFor is only called during setup
func (c *Cell) setServerPortFor(player PlayerID) {
	c.serverPortP1 = player == Player1
	c.serverPortP2 = player == Player2
}

// NewBoard returns a board with every cell empty
func NewBoard() Board {
	var b Board
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			b.cells[r][c] = newCell()
		}
	}
	return b
}

// InBounds reports whether p lies on the board
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < BoardSize &&
		p.Col >= 0 && p.Col < BoardSize
}

// At returns a copy of the cell at p. p must be in bounds.
func (b *Board) At(p Position) Cell {
	return b.cells[p.Row][p.Col]
}

// cell returns the mutable cell at p. p must be in bounds.
func (b *Board) cell(p Position) *Cell {
	return &b.cells[p.Row][p.Col]
}

// find locates the cell holding linkIdx
func (b *Board) find(linkIdx int) (Position, bool) {
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := &b.cells[r][c]
			if cell.kind == CellLink && cell.linkIndex == linkIdx {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}
