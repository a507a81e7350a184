// Package render draws engine.GameView snapshots as text.
//
// The layout is a framed display with Player 1's panel on top, the 8x8 board
// in the middle and Player 2's panel at the bottom. Every string is derived
// from the view alone, so what a viewer may not know never reaches the output.
package render
