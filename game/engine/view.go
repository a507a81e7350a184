package engine

// UnknownLink is shown in place of a link whose identity the viewer has not learned
const UnknownLink = "?"

// DownloadedLink marks a roster slot whose link has left the board
const DownloadedLink = "."

// CellView is one board square as a viewer sees it
type CellView struct {
	Label      string   `json:"label,omitempty"`
	Owner      PlayerID `json:"owner,omitempty"`
	Firewall   PlayerID `json:"firewall,omitempty"`
	ServerPort PlayerID `json:"server_port,omitempty"`
}

// LinkView is one roster slot as a viewer sees it
type LinkView struct {
	Label    string    `json:"label"`
	Value    string    `json:"value"` // "V3", "?" or "."
	Alive    bool      `json:"alive"`
	Known    bool      `json:"known"`
	Boosted  bool      `json:"boosted,omitempty"`
	Shielded bool      `json:"shielded,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// PlayerPanel summarises one player for a viewer. Ability cards are listed
// only on the viewer's own panel.
type PlayerPanel struct {
	Player             PlayerID      `json:"player"`
	DownloadedData     int           `json:"downloaded_data"`
	DownloadedVirus    int           `json:"downloaded_virus"`
	AbilitiesRemaining int           `json:"abilities_remaining"`
	Abilities          []AbilitySlot `json:"abilities,omitempty"`
	Links              []LinkView    `json:"links"`
}

// GameView is a snapshot of the game filtered for one viewer
type GameView struct {
	Viewer   PlayerID       `json:"viewer"`
	Current  PlayerID       `json:"current"`
	Turn     int            `json:"turn"`
	GameOver bool           `json:"game_over"`
	Winner   PlayerID       `json:"winner"`
	Cells    [][]CellView   `json:"cells"`
	Players  [2]PlayerPanel `json:"players"`
}

// Panel returns the panel of player
func (v GameView) Panel(player PlayerID) PlayerPanel {
	return v.Players[player.index()]
}

// View builds the snapshot seen by viewer. PlayerNone is a spectator, who
// only sees links revealed to both players.
func (g *Game) View(viewer PlayerID) GameView {
	winner := g.winnerIfAny()
	v := GameView{
		Viewer:   viewer,
		Current:  g.current,
		Turn:     g.turn,
		GameOver: winner != PlayerNone,
		Winner:   winner,
		Cells:    make([][]CellView, BoardSize),
	}

	for r := 0; r < BoardSize; r++ {
		row := make([]CellView, BoardSize)
		for c := 0; c < BoardSize; c++ {
			cell := g.board.At(Position{Row: r, Col: c})
			cv := CellView{Firewall: cell.FirewallOwner()}
			switch {
			case cell.IsServerPortFor(Player1):
				cv.ServerPort = Player1
			case cell.IsServerPortFor(Player2):
				cv.ServerPort = Player2
			}
			if cell.Kind() == CellLink {
				link := g.links[cell.LinkIndex()]
				cv.Label = string(link.label)
				cv.Owner = link.owner
			}
			row[c] = cv
		}
		v.Cells[r] = row
	}

	for _, p := range []PlayerID{Player1, Player2} {
		v.Players[p.index()] = g.panelFor(p, viewer)
	}
	return v
}

func (g *Game) panelFor(who, viewer PlayerID) PlayerPanel {
	ps := g.players[who.index()]
	pa := g.abilities[who.index()]

	panel := PlayerPanel{
		Player:             who,
		DownloadedData:     ps.downloadedData,
		DownloadedVirus:    ps.downloadedVirus,
		AbilitiesRemaining: pa.Remaining(),
		Links:              make([]LinkView, 0, LinksPerPlayer),
	}
	if who == viewer {
		panel.Abilities = pa.Roster()
	}

	for slot := 0; slot < LinksPerPlayer; slot++ {
		lv := LinkView{Label: string(LabelFor(who, slot)), Value: DownloadedLink}
		idx := ps.LinkIndex(slot)
		if idx >= 0 {
			link := g.links[idx]
			lv.Alive = link.alive
			lv.Known = link.VisibleTo(viewer)
			lv.Value = UnknownLink
			if lv.Known {
				lv.Value = link.String()
			}
			if who == viewer {
				lv.Boosted = link.boosted
				lv.Shielded = link.shielded
			}
			if pos, ok := g.board.find(idx); ok {
				p := pos
				lv.Position = &p
			}
		}
		panel.Links = append(panel.Links, lv)
	}
	return panel
}
