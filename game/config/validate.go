package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/raiinet/game/engine"
)

// ValidationResult captures the outcome of validating a single setup file.
// If Valid is true, Errors contains informational lines prefixed with "✓";
// otherwise it accumulates every problem found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// ValidateFile checks one setup file. Unlike LoadGameConfig it keeps going
// after the first problem so every bad field is reported at once.
func ValidateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}
	fail := func(format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		fail("Missing required field: name")
	}

	abilities := []struct{ field, value string }{
		{"ability1", config.Ability1},
		{"ability2", config.Ability2},
	}
	for _, a := range abilities {
		if a.value == "" {
			continue
		}
		if err := engine.ValidateAbilityOrder(a.value, a.field); err != nil {
			fail("%v", err)
		}
	}

	layouts := []struct{ field, value string }{
		{"link1", config.Link1},
		{"link2", config.Link2},
	}
	for _, l := range layouts {
		if l.value == "" {
			continue
		}
		if err := engine.ValidateLinkLayout(l.value, l.field); err != nil {
			fail("%v", err)
		}
	}

	if !result.Valid {
		return result
	}

	merged, err := engine.LoadGameConfig(filePath)
	if err != nil {
		fail("%v", err)
		return result
	}

	info := func(format string, args ...any) {
		result.Errors = append(result.Errors, "✓ "+fmt.Sprintf(format, args...))
	}
	info("Name: %s", merged.Name)
	info("Player 1 abilities: %s", describeAbilities(merged.Ability1))
	info("Player 2 abilities: %s", describeAbilities(merged.Ability2))
	info("Player 1 links: %s", describeLayout(merged.Link1))
	info("Player 2 links: %s", describeLayout(merged.Link2))
	for _, field := range defaultedFields(config) {
		info("%s: default", field)
	}
	return result
}

// ValidateDir validates every *.json file in dir, sorted by file name
func ValidateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

func describeAbilities(order string) string {
	names := make([]string, 0, len(order))
	for i := 0; i < len(order); i++ {
		a, err := engine.ParseAbility(order[i])
		if err != nil {
			continue
		}
		names = append(names, a.Name())
	}
	return fmt.Sprintf("%s (%s)", order, strings.Join(names, ", "))
}

func describeLayout(layout string) string {
	return fmt.Sprintf("%s (%d data, strength %d / %d virus, strength %d)",
		layout,
		engine.CountKind(layout, engine.Data), engine.TotalStrength(layout, engine.Data),
		engine.CountKind(layout, engine.Virus), engine.TotalStrength(layout, engine.Virus))
}

func defaultedFields(c engine.GameConfig) []string {
	var fields []string
	for _, f := range []struct{ name, value string }{
		{"ability1", c.Ability1},
		{"ability2", c.Ability2},
		{"link1", c.Link1},
		{"link2", c.Link2},
	} {
		if f.value == "" {
			fields = append(fields, f.name)
		}
	}
	return fields
}
