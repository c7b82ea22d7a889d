package config

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed presets/*.conf
var presetFiles embed.FS

// PresetCustom selects patterns from a user-supplied file instead of a
// bundled rule set.
const PresetCustom = "custom"

// DefaultPreset is applied when neither flag nor configuration selects one.
const DefaultPreset = "basic"

// PresetDefinition describes one bundled exclusion scheme.
type PresetDefinition struct {
	Key         string
	Name        string
	Description string
	fileName    string
}

// presetDefinitions is ordered for display.
var presetDefinitions = []PresetDefinition{
	{
		Key:         "basic",
		Name:        "Basic",
		Description: "excludes common build artifacts and caches, suitable for most projects",
		fileName:    "presets/basic.conf",
	},
	{
		Key:         "git-friendly",
		Name:        "Git friendly",
		Description: "keeps the .git directory but drops bulky artifacts, for snapshots that need version history",
		fileName:    "presets/git-friendly.conf",
	},
	{
		Key:         "complete",
		Name:        "Complete",
		Description: "excludes everything unnecessary including .git, for final distribution",
		fileName:    "presets/complete.conf",
	},
	{
		Key:         "lightweight",
		Name:        "Lightweight",
		Description: "keeps only core source code, for review and study",
		fileName:    "presets/lightweight.conf",
	},
	{
		Key:         PresetCustom,
		Name:        "Custom",
		Description: "patterns read from the file supplied via --config",
	},
}

// Presets returns the bundled preset definitions in display order.
func Presets() []PresetDefinition {
	result := make([]PresetDefinition, len(presetDefinitions))
	copy(result, presetDefinitions)
	return result
}

// PresetNames returns the valid preset keys in display order.
func PresetNames() []string {
	names := make([]string, 0, len(presetDefinitions))
	for _, definition := range presetDefinitions {
		names = append(names, definition.Key)
	}
	return names
}

// IsValidPreset reports whether the key names a known preset.
func IsValidPreset(presetKey string) bool {
	for _, definition := range presetDefinitions {
		if definition.Key == presetKey {
			return true
		}
	}
	return false
}

// LoadPresetPatterns returns the raw pattern lines of a bundled preset.
// The custom preset has no bundled patterns and must be loaded from the
// user's file instead.
func LoadPresetPatterns(presetKey string) ([]string, error) {
	for _, definition := range presetDefinitions {
		if definition.Key != presetKey {
			continue
		}
		if definition.fileName == "" {
			return nil, fmt.Errorf("preset %s requires a pattern file supplied via --config", presetKey)
		}
		content, readError := presetFiles.ReadFile(definition.fileName)
		if readError != nil {
			return nil, fmt.Errorf("read bundled preset %s: %w", presetKey, readError)
		}
		return splitPatternLines(string(content)), nil
	}
	return nil, fmt.Errorf("unknown preset %s", presetKey)
}

func splitPatternLines(content string) []string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, "\r"))
	}
	return result
}
