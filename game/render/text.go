package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/raiinet/game/engine"
)

const (
	frame      = "========================="
	boardFrame = "========"
)

// linksPerRow is how many roster slots a panel prints per line
const linksPerRow = 4

// Text renders the full display: Player 1's panel, the board, then Player 2's panel
func Text(v engine.GameView) string {
	var b strings.Builder
	b.WriteString(frame + "\n")
	b.WriteString(Panel(v.Panel(engine.Player1)))
	b.WriteString(boardFrame + "\n")
	b.WriteString(Board(v))
	b.WriteString(boardFrame + "\n")
	b.WriteString(Panel(v.Panel(engine.Player2)))
	b.WriteString(frame + "\n")
	return b.String()
}

// Panel renders one player's downloads, remaining abilities and link roster
func Panel(p engine.PlayerPanel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player %d: \n", p.Player.Number())
	fmt.Fprintf(&b, "Downloaded: %dD, %dV\n", p.DownloadedData, p.DownloadedVirus)
	fmt.Fprintf(&b, "Abilities: %d\n", p.AbilitiesRemaining)

	for start := 0; start < len(p.Links); start += linksPerRow {
		end := min(start+linksPerRow, len(p.Links))
		parts := make([]string, 0, linksPerRow)
		for _, lv := range p.Links[start:end] {
			parts = append(parts, lv.Label+": "+lv.Value)
		}
		b.WriteString(strings.Join(parts, " ") + "\n")
	}
	return b.String()
}

// Board renders the grid one row per line
func Board(v engine.GameView) string {
	var b strings.Builder
	for _, row := range v.Cells {
		for _, cell := range row {
			b.WriteByte(CellChar(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CellChar picks the character for one square: a link label, then a firewall
// (m for Player 1, w for Player 2), then a server port, else '.'
func CellChar(c engine.CellView) byte {
	switch {
	case c.Label != "":
		return c.Label[0]
	case c.Firewall == engine.Player1:
		return 'm'
	case c.Firewall == engine.Player2:
		return 'w'
	case c.ServerPort != engine.PlayerNone:
		return 'S'
	}
	return '.'
}

// Abilities renders the ability roster listing, one card per line
func Abilities(slots []engine.AbilitySlot) []string {
	lines := []string{"Abilities:"}
	for _, s := range slots {
		state := "[ready]"
		if s.Used {
			state = "[used]"
		}
		lines = append(lines, fmt.Sprintf("%d: %s (%s) %s", s.Slot, s.Code, s.Name, state))
	}
	return lines
}

// TextView is a line-oriented terminal view
type TextView struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTextView reads commands from in and writes the display to out
func NewTextView(in io.Reader, out io.Writer) *TextView {
	return &TextView{in: bufio.NewScanner(in), out: out}
}

func (t *TextView) ShowBoard(v engine.GameView) error {
	_, err := io.WriteString(t.out, Text(v))
	return err
}

func (t *TextView) ShowMessage(msg string) error {
	_, err := fmt.Fprintln(t.out, msg)
	return err
}

// ShowPrompt writes the prompt after a leading space, without a newline
func (t *TextView) ShowPrompt(prompt string) error {
	_, err := io.WriteString(t.out, " "+prompt)
	return err
}

// ReadCommand returns the next input line. End of input reads as "quit".
func (t *TextView) ReadCommand() (string, error) {
	if t.in.Scan() {
		return t.in.Text(), nil
	}
	if err := t.in.Err(); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return "quit", nil
}
