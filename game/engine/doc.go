// Package engine implements the rules of RAIInet, a two-player hidden-information
// game on an 8x8 board.
//
// Each player owns eight links labelled a-h (Player 1) or A-H (Player 2). A link is
// either Data or Virus with a strength from 1 to 4, and its identity stays hidden from
// the opponent until a battle, a firewall, a download or a Scan reveals it. Players
// also hold five one-shot ability cards chosen from eight abilities.
//
// Core Types:
//
// Game is the root aggregate and implements both the Engine interface used by
// drivers and the AbilityContext interface abilities mutate the game through.
// GameConfig holds the ability orders and link layouts a match is built from.
// GameView is a per-viewer snapshot that never leaks hidden links.
//
// Usage:
//
//	g, err := engine.NewGame(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := g.UseAbility(0, engine.LabelTarget('a')); err != nil {
//		// ability misuse, the turn is still P1's
//	}
//	res := g.MoveLink('a', engine.Down)
//	if res.GameOver {
//		fmt.Println(res.Winner, "wins")
//	}
//
// Game Rules:
//
// A player wins by downloading four Data links, and loses by downloading four
// Virus links. Moving onto an opponent link starts a battle the stronger link wins,
// with ties going to the attacker. Moving onto the opponent's server port hands the
// link to the opponent, and moving off the far edge downloads it for its owner.
package engine
