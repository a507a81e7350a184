package engine

// LinkIndexForLabel maps a-h to handles 0-7 (P1) and A-H to 8-15 (P2)
func LinkIndexForLabel(label byte) (idx int, owner PlayerID, ok bool) {
	switch {
	case label >= 'a' && label <= 'h':
		return int(label - 'a'), Player1, true
	case label >= 'A' && label <= 'H':
		return LinksPerPlayer + int(label-'A'), Player2, true
	}
	return -1, PlayerNone, false
}

// LabelFor returns the label of roster slot for owner
func LabelFor(owner PlayerID, slot int) byte {
	if owner == Player2 {
		return byte('A' + slot)
	}
	return byte('a' + slot)
}

// slotForLabel returns the roster slot of label when it belongs to player
func slotForLabel(player PlayerID, label byte) (int, bool) {
	idx, owner, ok := LinkIndexForLabel(label)
	if !ok || owner != player {
		return -1, false
	}
	return idx % LinksPerPlayer, true
}

// baseIndex returns the first link handle owned by player
func baseIndex(player PlayerID) int {
	if player == Player2 {
		return LinksPerPlayer
	}
	return 0
}

// CountKind counts links of kind in a 16-character layout string
func CountKind(layout string, kind LinkKind) int {
	count := 0
	for i := 0; i+1 < len(layout); i += 2 {
		k, _, err := parseLinkPair(layout[i], layout[i+1])
		if err == nil && k == kind {
			count++
		}
	}
	return count
}

// TotalStrength sums the strengths of links of kind in a layout string
func TotalStrength(layout string, kind LinkKind) int {
	total := 0
	for i := 0; i+1 < len(layout); i += 2 {
		k, s, err := parseLinkPair(layout[i], layout[i+1])
		if err == nil && k == kind {
			total += s
		}
	}
	return total
}
