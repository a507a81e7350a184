// Command analyze prints quick, human-readable heuristics about the setup
// files in a directory (configs by default). It summarizes each player's
// link layout and ability roster, and flags setups that look lopsided.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/raiinet/game/engine"
)

// strengthGapWarning is the total strength difference worth pointing out
const strengthGapWarning = 3

// guardSlots are the roster slots that start in front of the owner's server ports
var guardSlots = []int{3, 4}

// PlayerSummary is what analysis reports for one side of a setup
type PlayerSummary struct {
	Abilities     string
	DataCount     int
	DataStrength  int
	VirusCount    int
	VirusStrength int
	Guards        []string // kind and strength of the links in front of the ports
	Strongest     string   // label and value of the strongest data link
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing %s: %v\n", dir, err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeSetup(os.Stdout, file)
	}
}

func analyzeSetup(w io.Writer, path string) {
	cfg, err := engine.LoadGameConfig(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading setup: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", cfg.Description)
	}

	p1 := summarize(cfg.Ability1, cfg.Link1, 'a')
	p2 := summarize(cfg.Ability2, cfg.Link2, 'A')
	printSummary(w, 1, p1)
	printSummary(w, 2, p2)

	for _, line := range warnings(p1, p2) {
		fmt.Fprintln(w, line)
	}
}

func summarize(abilities, layout string, firstLabel byte) PlayerSummary {
	s := PlayerSummary{
		Abilities:     abilities,
		DataCount:     engine.CountKind(layout, engine.Data),
		DataStrength:  engine.TotalStrength(layout, engine.Data),
		VirusCount:    engine.CountKind(layout, engine.Virus),
		VirusStrength: engine.TotalStrength(layout, engine.Virus),
	}

	for _, slot := range guardSlots {
		s.Guards = append(s.Guards, layout[2*slot:2*slot+2])
	}

	best := byte('0')
	for i := 0; i+1 < len(layout); i += 2 {
		if (layout[i] == 'D' || layout[i] == 'd') && layout[i+1] > best {
			best = layout[i+1]
			s.Strongest = fmt.Sprintf("%c=%s", firstLabel+byte(i/2), layout[i:i+2])
		}
	}
	return s
}

func printSummary(w io.Writer, player int, s PlayerSummary) {
	fmt.Fprintf(w, "Player %d abilities: %s\n", player, s.Abilities)
	fmt.Fprintf(w, "Player %d data: %d links, strength %d\n", player, s.DataCount, s.DataStrength)
	fmt.Fprintf(w, "Player %d viruses: %d links, strength %d\n", player, s.VirusCount, s.VirusStrength)
	fmt.Fprintf(w, "Player %d port guards: %s\n", player, strings.Join(s.Guards, " "))
	if s.Strongest != "" {
		fmt.Fprintf(w, "Player %d strongest data: %s\n", player, s.Strongest)
	}
}

// warnings compares the two sides and returns one line per concern, or a
// single all-clear line
func warnings(p1, p2 PlayerSummary) []string {
	var out []string

	total1 := p1.DataStrength + p1.VirusStrength
	total2 := p2.DataStrength + p2.VirusStrength
	if gap := total1 - total2; gap >= strengthGapWarning || -gap >= strengthGapWarning {
		out = append(out, fmt.Sprintf("⚠️  WARNING: total strength is lopsided (%d vs %d)", total1, total2))
	}

	for i, s := range []PlayerSummary{p1, p2} {
		if s.DataCount < engine.WinThreshold {
			out = append(out, fmt.Sprintf("⚠️  WARNING: Player %d has only %d data links; their opponent cannot win by downloading data", i+1, s.DataCount))
		}
		if s.VirusCount < engine.WinThreshold {
			out = append(out, fmt.Sprintf("⚠️  WARNING: Player %d has only %d viruses; their opponent cannot lose by downloading viruses", i+1, s.VirusCount))
		}
	}

	if sortedCodes(p1.Abilities) != sortedCodes(p2.Abilities) {
		out = append(out, "ℹ️  Ability rosters differ")
	}

	if len(out) == 0 {
		out = append(out, "✅ Setup looks balanced")
	}
	return out
}

func sortedCodes(abilities string) string {
	codes := strings.Split(strings.ToUpper(abilities), "")
	sort.Strings(codes)
	return strings.Join(codes, "")
}
