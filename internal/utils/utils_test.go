package utils

import (
	"path/filepath"
	"testing"
)

func TestDeduplicatePatterns(t *testing.T) {
	t.Parallel()

	input := []string{"*.log", "build/", "*.log", "", "build/"}
	result := DeduplicatePatterns(input)
	expected := []string{"*.log", "build/", ""}
	if len(result) != len(expected) {
		t.Fatalf("DeduplicatePatterns = %v, want %v", result, expected)
	}
	for index := range expected {
		if result[index] != expected[index] {
			t.Fatalf("DeduplicatePatterns = %v, want %v", result, expected)
		}
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()

	testCases := []struct {
		name     string
		fullPath string
		root     string
		expected string
	}{
		{
			name:     "child_path_becomes_relative",
			fullPath: filepath.Join(rootDirectory, "sub", "file.txt"),
			root:     rootDirectory,
			expected: "sub/file.txt",
		},
		{
			name:     "root_itself_becomes_dot",
			fullPath: rootDirectory,
			root:     rootDirectory,
			expected: ".",
		},
		{
			name:     "sibling_path_stays_usable",
			fullPath: filepath.Join(rootDirectory, "..", "elsewhere"),
			root:     rootDirectory,
			expected: "../elsewhere",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if got := RelativePathOrSelf(testCase.fullPath, testCase.root); got != testCase.expected {
				t.Fatalf("RelativePathOrSelf(%q, %q) = %q, want %q", testCase.fullPath, testCase.root, got, testCase.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		sizeBytes int64
		expected  string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, testCase := range testCases {
		if got := FormatFileSize(testCase.sizeBytes); got != testCase.expected {
			t.Errorf("FormatFileSize(%d) = %q, want %q", testCase.sizeBytes, got, testCase.expected)
		}
	}
}

func TestCompressionRatio(t *testing.T) {
	t.Parallel()

	if got := CompressionRatio(0, 0); got != 0 {
		t.Fatalf("CompressionRatio(0, 0) = %v, want 0", got)
	}
	if got := CompressionRatio(100, 25); got != 75 {
		t.Fatalf("CompressionRatio(100, 25) = %v, want 75", got)
	}
	if got := CompressionRatio(100, 100); got != 0 {
		t.Fatalf("CompressionRatio(100, 100) = %v, want 0", got)
	}
}

func TestNormalizeExtension(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{".Go", ".go"},
		{"PY", ".py"},
		{"  .md ", ".md"},
		{"", ""},
	}

	for _, testCase := range testCases {
		if got := NormalizeExtension(testCase.input); got != testCase.expected {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", testCase.input, got, testCase.expected)
		}
	}
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	if IsBinary([]byte("plain text\nwith lines\n")) {
		t.Fatalf("plain text misclassified as binary")
	}
	if !IsBinary([]byte{0x00, 0x01, 0x02}) {
		t.Fatalf("NUL bytes should classify as binary")
	}
	if !IsBinary([]byte{0xff, 0xfe, 0xfd}) {
		t.Fatalf("invalid UTF-8 should classify as binary")
	}
	if IsBinary(nil) {
		t.Fatalf("empty content should classify as text")
	}
}
