package report

import (
	"strings"
	"testing"
	"time"

	"github.com/temirov/srcpack/internal/types"
)

func TestRenderPlainSummary(t *testing.T) {
	t.Parallel()

	summary := Summary{
		Stats: types.PackagingStats{
			TotalFiles:     5,
			IncludedFiles:  3,
			ExcludedFiles:  2,
			TotalSize:      2048,
			CompressedSize: 512,
			StrippedFiles:  1,
			Tokens:         420,
			TokenModel:     "gpt-4o",
		},
		OutputPath: "snapshot.zip",
		Elapsed:    1500 * time.Millisecond,
	}

	rendered := render(summary, false)

	expectedFragments := []string{
		"Packed snapshot.zip",
		"3 included, 2 excluded, 5 total",
		"2.0 KB",
		"512.0 B",
		"75.0% saved",
		"1 files",
		"420 (gpt-4o)",
		"1.5s",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("rendered report missing %q:\n%s", fragment, rendered)
		}
	}
	if strings.Contains(rendered, "\x1b[") {
		t.Fatalf("plain rendering must not contain ANSI escapes:\n%s", rendered)
	}
}

func TestRenderOmitsOptionalSections(t *testing.T) {
	t.Parallel()

	summary := Summary{
		Stats: types.PackagingStats{
			TotalFiles:    1,
			IncludedFiles: 1,
		},
		OutputPath: "out.zip",
	}

	rendered := render(summary, false)

	if strings.Contains(rendered, "Stripped") {
		t.Fatalf("report should omit the stripped line when nothing was stripped:\n%s", rendered)
	}
	if strings.Contains(rendered, "Tokens") {
		t.Fatalf("report should omit the token line when counting was disabled:\n%s", rendered)
	}
}
