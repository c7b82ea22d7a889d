// Package config supplies srcpack with raw exclusion pattern lines from
// bundled presets or user files, and with layered application settings.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadPatternLines reads raw pattern lines from a rule file. Comment and
// blank lines are returned as-is; the pattern compiler filters them. The
// caller decides whether a missing file is fatal.
func ReadPatternLines(filePath string) ([]string, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return nil, fmt.Errorf("open pattern file %s: %w", filePath, openError)
	}
	defer func() {
		_ = fileHandle.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("read pattern file %s: %w", filePath, scanError)
	}
	return lines, nil
}
