package engine

// ApplyDownload gives link linkIdx to receiver: the receiver's counter for the link's
// kind goes up, both players learn the link, and it leaves the board and its roster.
func (g *Game) ApplyDownload(linkIdx int, receiver PlayerID) error {
	if linkIdx < 0 || linkIdx >= TotalLinks {
		return fatalError("invalid link index for download: %d", linkIdx)
	}
	if !receiver.Valid() {
		return fatalError("invalid receiver for download")
	}

	link := &g.links[linkIdx]
	if !link.alive {
		return abilityError("link already downloaded")
	}

	rs := &g.players[receiver.index()]
	if link.kind == Virus {
		rs.incrDownloadedVirus()
	} else {
		rs.incrDownloadedData()
	}

	link.revealToBoth()
	link.alive = false

	if pos, ok := g.board.find(linkIdx); ok {
		g.board.cell(pos).clearLink()
	}

	owner := &g.players[link.owner.index()]
	owner.setLinkIndex(linkIdx%LinksPerPlayer, -1)
	return nil
}

// ApplyFirewall places a firewall for owner on an empty, non-port square
func (g *Game) ApplyFirewall(pos Position, owner PlayerID) error {
	if !g.board.InBounds(pos) {
		return abilityError("invalid firewall position")
	}
	if !owner.Valid() {
		return fatalError("invalid firewall owner")
	}

	cell := g.board.cell(pos)
	if cell.Kind() != CellEmpty {
		return abilityError("firewall square must be empty")
	}
	if cell.IsServerPort() {
		return abilityError("cannot place a firewall on a server port")
	}
	if cell.HasFirewall() {
		return abilityError("square already has a firewall")
	}

	cell.setFirewall(owner)
	return nil
}

// ApplyBoost lets a link move two squares per move for the rest of the game
func (g *Game) ApplyBoost(linkIdx int) error {
	link, err := g.liveLink(linkIdx)
	if err != nil {
		return err
	}
	if link.boosted {
		return abilityError("link is already boosted")
	}
	link.boosted = true
	return nil
}

// ApplyScan reveals a link to viewer only
func (g *Game) ApplyScan(linkIdx int, viewer PlayerID) error {
	link, err := g.liveLink(linkIdx)
	if err != nil {
		return err
	}
	link.revealTo(viewer)
	return nil
}

// ApplyPolarize turns Data into Virus and back
func (g *Game) ApplyPolarize(linkIdx int) error {
	link, err := g.liveLink(linkIdx)
	if err != nil {
		return err
	}
	link.kind = link.kind.Flip()
	return nil
}

func (g *Game) ApplyShield(linkIdx int) error {
	link, err := g.liveLink(linkIdx)
	if err != nil {
		return err
	}
	if link.shielded {
		return abilityError("link is already shielded")
	}
	link.shielded = true
	return nil
}

// ApplyJump grants user a two-square step on their next move
func (g *Game) ApplyJump(user PlayerID) error {
	if !user.Valid() {
		return fatalError("invalid player for jump")
	}
	g.jumpReady[user.index()] = true
	return nil
}

// ApplySwap lets user's next move exchange two of their own links
func (g *Game) ApplySwap(user PlayerID) error {
	if !user.Valid() {
		return fatalError("invalid player for swap")
	}
	g.swapReady[user.index()] = true
	return nil
}

func (g *Game) liveLink(linkIdx int) (*Link, error) {
	if linkIdx < 0 || linkIdx >= TotalLinks {
		return nil, fatalError("invalid link index: %d", linkIdx)
	}
	link := &g.links[linkIdx]
	if !link.alive {
		return nil, abilityError("link already downloaded")
	}
	return link, nil
}
