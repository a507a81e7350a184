// Package controller reads player commands and applies them to a match.
//
// Commands:
//
//	move <label> <up|down|left|right>
//	ability <N> [label [row col] | row col]
//	abilities
//	board
//	sequence <file>
//	quit
//
// A failed command leaves the turn unchanged and shows "<reason>, P1's Turn"
// (or P2's) as the status line. End of input counts as quit.
package controller
