package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := summarize("LFDSP", "V1V2V3V4D1D2D3D4", 'a')

	assert.Equal(t, 4, s.DataCount)
	assert.Equal(t, 10, s.DataStrength)
	assert.Equal(t, 4, s.VirusCount)
	assert.Equal(t, 10, s.VirusStrength)
	assert.Equal(t, []string{"V4", "D1"}, s.Guards)
	assert.Equal(t, "h=D4", s.Strongest)

	s = summarize("LFDSP", "d3V1V1V1V1V1V1V1", 'A')
	assert.Equal(t, "A=d3", s.Strongest)
	assert.Equal(t, 1, s.DataCount)
}

func TestWarnings(t *testing.T) {
	classic := summarize("LFDSP", "V1V2V3V4D1D2D3D4", 'a')

	tests := []struct {
		name string
		p2   PlayerSummary
		want []string
	}{
		{
			name: "mirror is balanced",
			p2:   summarize("LFDSP", "V1V2V3V4D1D2D3D4", 'A'),
			want: []string{"✅ Setup looks balanced"},
		},
		{
			name: "same cards in another order",
			p2:   summarize("PSDFL", "D4D3D2D1V4V3V2V1", 'A'),
			want: []string{"✅ Setup looks balanced"},
		},
		{
			name: "different rosters",
			p2:   summarize("JJLLH", "V1V2V3V4D1D2D3D4", 'A'),
			want: []string{"ℹ️  Ability rosters differ"},
		},
		{
			name: "stronger side",
			p2:   summarize("LFDSP", "V4V4V3V4D1D2D3D4", 'A'),
			want: []string{"⚠️  WARNING: total strength is lopsided (20 vs 25)"},
		},
		{
			name: "too few data links",
			p2:   summarize("LFDSP", "V1V2V3V4V1D2D3D4", 'A'),
			want: []string{"⚠️  WARNING: Player 2 has only 3 data links; their opponent cannot win by downloading data"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, warnings(classic, tt.p2))
		})
	}
}

func TestAnalyzeSetup(t *testing.T) {
	var out bytes.Buffer
	analyzeSetup(&out, filepath.Join("..", "..", "configs", "classic.json"))

	text := out.String()
	assert.Contains(t, text, "Player 1 abilities: LFDSP")
	assert.Contains(t, text, "Player 2 data: 4 links, strength 10")
	assert.Contains(t, text, "Player 1 port guards: V4 D1")
}

func TestAnalyzeSetup_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ability1": "HHH"}`), 0o644))

	var out bytes.Buffer
	analyzeSetup(&out, bad)
	assert.Contains(t, out.String(), "Error loading setup")

	out.Reset()
	analyzeSetup(&out, filepath.Join(dir, "missing.json"))
	assert.Contains(t, out.String(), "Error loading setup")
}
