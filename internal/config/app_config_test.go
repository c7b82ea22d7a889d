package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadApplicationConfigurationReadsWorkingDirectoryFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	configurationContent := `pack:
  preset: complete
  compression: lzma
  remove_comments: true
  jobs: 4
  tokens:
    enabled: true
    model: gpt-4o
`
	if writeError := os.WriteFile(filepath.Join(workingDirectory, ConfigFileName), []byte(configurationContent), 0o644); writeError != nil {
		t.Fatalf("write configuration: %v", writeError)
	}

	loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration: %v", loadError)
	}

	if loaded.Pack.Preset != "complete" {
		t.Fatalf("preset = %q, want complete", loaded.Pack.Preset)
	}
	if loaded.Pack.Compression != "lzma" {
		t.Fatalf("compression = %q, want lzma", loaded.Pack.Compression)
	}
	if loaded.Pack.RemoveComments == nil || !*loaded.Pack.RemoveComments {
		t.Fatalf("remove_comments not loaded as true")
	}
	if loaded.Pack.Jobs == nil || *loaded.Pack.Jobs != 4 {
		t.Fatalf("jobs not loaded as 4")
	}
	if loaded.Pack.Tokens.Enabled == nil || !*loaded.Pack.Tokens.Enabled {
		t.Fatalf("tokens.enabled not loaded as true")
	}
	if loaded.Pack.Tokens.Model != "gpt-4o" {
		t.Fatalf("tokens.model = %q, want gpt-4o", loaded.Pack.Tokens.Model)
	}
}

func TestLoadApplicationConfigurationMissingFileIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()

	loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration: %v", loadError)
	}
	if loaded.Pack.Preset != "" || loaded.Pack.RemoveComments != nil {
		t.Fatalf("missing configuration should produce zero values, got %#v", loaded.Pack)
	}
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	t.Parallel()

	enabled := true
	disabled := false
	four := 4

	base := ApplicationConfiguration{Pack: PackConfiguration{
		Preset:         "basic",
		Compression:    "deflate",
		RemoveComments: &enabled,
		Jobs:           &four,
	}}
	override := ApplicationConfiguration{Pack: PackConfiguration{
		Preset:         "complete",
		RemoveComments: &disabled,
	}}

	merged := base.Merge(override)

	if merged.Pack.Preset != "complete" {
		t.Fatalf("preset = %q, want override value complete", merged.Pack.Preset)
	}
	if merged.Pack.Compression != "deflate" {
		t.Fatalf("compression = %q, unset override must keep base value", merged.Pack.Compression)
	}
	if merged.Pack.RemoveComments == nil || *merged.Pack.RemoveComments {
		t.Fatalf("remove_comments should take the override's false")
	}
	if merged.Pack.Jobs == nil || *merged.Pack.Jobs != 4 {
		t.Fatalf("jobs should keep the base value")
	}
}

func TestReadPatternLines(t *testing.T) {
	t.Parallel()

	patternFilePath := filepath.Join(t.TempDir(), "rules.conf")
	if writeError := os.WriteFile(patternFilePath, []byte("*.log\n# comment\n\n!keep.log\n"), 0o644); writeError != nil {
		t.Fatalf("write pattern file: %v", writeError)
	}

	lines, readError := ReadPatternLines(patternFilePath)
	if readError != nil {
		t.Fatalf("ReadPatternLines: %v", readError)
	}
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4 raw lines", len(lines))
	}
	if lines[0] != "*.log" || lines[3] != "!keep.log" {
		t.Fatalf("unexpected lines: %#v", lines)
	}

	if _, missingError := ReadPatternLines(filepath.Join(t.TempDir(), "missing.conf")); missingError == nil {
		t.Fatalf("missing pattern file must fail")
	}
}
