// Package report renders the summary printed after a packaging run.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/srcpack/internal/types"
	"github.com/temirov/srcpack/internal/utils"
)

// Summary carries everything the report needs beyond the raw counters.
type Summary struct {
	Stats      types.PackagingStats
	OutputPath string
	Elapsed    time.Duration
}

// Render produces the human-readable run summary. Colors are applied only
// when standard output is a terminal so piped output stays plain.
func Render(summary Summary) string {
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return render(summary, useColor)
}

func render(summary Summary, useColor bool) string {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite)
	value := color.New(color.FgGreen)
	if !useColor {
		heading.DisableColor()
		label.DisableColor()
		value.DisableColor()
	}

	stats := summary.Stats
	var builder strings.Builder

	builder.WriteString(heading.Sprintf("Packed %s", summary.OutputPath))
	builder.WriteString("\n")

	writeLine := func(name string, formatted string) {
		builder.WriteString(label.Sprintf("  %-14s", name))
		builder.WriteString(value.Sprint(formatted))
		builder.WriteString("\n")
	}

	writeLine("Files", fmt.Sprintf("%d included, %d excluded, %d total",
		stats.IncludedFiles, stats.ExcludedFiles, stats.TotalFiles))
	writeLine("Original", utils.FormatFileSize(stats.TotalSize))
	writeLine("Archive", fmt.Sprintf("%s (%.1f%% saved)",
		utils.FormatFileSize(stats.CompressedSize),
		utils.CompressionRatio(stats.TotalSize, stats.CompressedSize)))
	if stats.StrippedFiles > 0 {
		writeLine("Stripped", fmt.Sprintf("%d files", stats.StrippedFiles))
	}
	if stats.TokenModel != "" {
		writeLine("Tokens", fmt.Sprintf("%d (%s)", stats.Tokens, stats.TokenModel))
	}
	writeLine("Elapsed", summary.Elapsed.Round(time.Millisecond).String())

	return builder.String()
}
