// Package utils contains general helper functions used across srcpack.
package utils

import (
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the slash-separated relative path from root
// to fullPath. Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// FormatFileSize renders a byte count using binary unit steps.
func FormatFileSize(sizeBytes int64) string {
	const step = 1024.0
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < step {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= step
	}
	return fmt.Sprintf("%.1f TB", size)
}

// CompressionRatio returns the space saving in percent relative to the
// original size. Zero original size yields zero.
func CompressionRatio(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return (1 - float64(compressedSize)/float64(originalSize)) * 100
}

// GetApplicationVersion returns the application version from build metadata.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return "unknown"
}

// NormalizeExtension lowercases an extension and guarantees a leading dot.
func NormalizeExtension(extension string) string {
	lowered := strings.ToLower(strings.TrimSpace(extension))
	if lowered == "" {
		return ""
	}
	if !strings.HasPrefix(lowered, ".") {
		return "." + lowered
	}
	return lowered
}
