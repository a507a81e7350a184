package engine

func rejectMove(reason string) MoveResult {
	return MoveResult{OK: false, Winner: PlayerNone, Outcome: OutcomeRejected, Reason: reason}
}

// MoveLink moves the current player's link labelled label one square in dir,
// or two when the link is boosted or a jump is pending. Illegal moves return
// OK=false and leave the game untouched.
func (g *Game) MoveLink(label byte, dir Direction) MoveResult {
	if g.IsOver() {
		return rejectMove("game is over")
	}

	mover := g.current
	slot, ok := slotForLabel(mover, label)
	if !ok {
		return rejectMove("not one of your links")
	}

	ps := &g.players[mover.index()]
	linkIdx := ps.LinkIndex(slot)
	if linkIdx < 0 {
		return rejectMove("link was already downloaded")
	}

	piece := &g.links[linkIdx]
	if !piece.alive || piece.owner != mover {
		return rejectMove("link was already downloaded")
	}

	src, ok := g.board.find(linkIdx)
	if !ok {
		return rejectMove("link is not on the board")
	}

	dr, dc := dir.Delta()
	if dr == 0 && dc == 0 {
		return rejectMove("invalid direction")
	}

	moverIdx := mover.index()
	step := 1
	if piece.boosted || g.jumpReady[moverIdx] {
		step = BoostedStep
	}
	dest := src.Offset(dr*step, dc*step)

	if dest.Col < 0 || dest.Col >= BoardSize {
		return rejectMove("cannot move off the side of the board")
	}

	opponent := mover.Opponent()

	if dest.Row < 0 || dest.Row >= BoardSize {
		if !offOpponentEdge(mover, src, dr, dc, dest) {
			return rejectMove("cannot move off the board here")
		}
		if err := g.ApplyDownload(linkIdx, mover); err != nil {
			return rejectMove(err.Error())
		}
		return g.endTurn(mover, label, dir, OutcomeSelfDownload)
	}

	destCell := g.board.cell(dest)

	if destCell.IsServerPortFor(mover) {
		return rejectMove("cannot move onto your own server port")
	}

	if destCell.IsServerPortFor(opponent) {
		if err := g.ApplyDownload(linkIdx, opponent); err != nil {
			return rejectMove(err.Error())
		}
		return g.endTurn(mover, label, dir, OutcomeServerPort)
	}

	if destCell.Kind() == CellLink {
		destIdx := destCell.LinkIndex()
		defender := &g.links[destIdx]

		if defender.owner == mover {
			if !g.swapReady[moverIdx] {
				return rejectMove("square is occupied by your own link")
			}
			destCell.setLinkIndex(linkIdx)
			g.board.cell(src).setLinkIndex(destIdx)
			return g.endTurn(mover, label, dir, OutcomeSwapped)
		}

		return g.battle(mover, label, dir, src, dest, linkIdx, destIdx)
	}

	if destCell.HasFirewall() && destCell.FirewallOwner() != mover {
		piece.revealToBoth()
		if piece.kind == Virus {
			if err := g.ApplyDownload(linkIdx, mover); err != nil {
				return rejectMove(err.Error())
			}
			return g.endTurn(mover, label, dir, OutcomeFirewallCaught)
		}
	}

	g.board.cell(src).clearLink()
	destCell.setLinkIndex(linkIdx)
	return g.endTurn(mover, label, dir, OutcomeMoved)
}

// offOpponentEdge reports whether a move leaving the board is a legal self-download:
// straight off the far edge, starting from the last row.
func offOpponentEdge(mover PlayerID, src Position, dr, dc int, dest Position) bool {
	if dc != 0 {
		return false
	}
	switch mover {
	case Player1:
		return src.Row == BoardSize-1 && dr > 0 && dest.Row >= BoardSize
	case Player2:
		return src.Row == 0 && dr < 0 && dest.Row < 0
	}
	return false
}

// battle resolves an attack on an enemy link. Both links are revealed, the attacker
// wins ties, and a shield on the losing side flips the result once.
func (g *Game) battle(mover PlayerID, label byte, dir Direction, src, dest Position, atkIdx, defIdx int) MoveResult {
	attacker := &g.links[atkIdx]
	defender := &g.links[defIdx]

	attacker.revealToBoth()
	defender.revealToBoth()

	attackerWins := attacker.strength >= defender.strength
	if attackerWins && defender.shielded {
		attackerWins = false
		defender.shielded = false
	} else if !attackerWins && attacker.shielded {
		attackerWins = true
		attacker.shielded = false
	}

	if attackerWins {
		if err := g.ApplyDownload(defIdx, mover); err != nil {
			return rejectMove(err.Error())
		}
		g.board.cell(src).clearLink()
		g.board.cell(dest).setLinkIndex(atkIdx)
		return g.endTurn(mover, label, dir, OutcomeBattleWon)
	}

	if err := g.ApplyDownload(atkIdx, mover.Opponent()); err != nil {
		return rejectMove(err.Error())
	}
	return g.endTurn(mover, label, dir, OutcomeBattleLost)
}
