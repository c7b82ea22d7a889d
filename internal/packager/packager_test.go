package packager

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/srcpack/internal/types"
)

func writeTestFile(t *testing.T, rootDirectory string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
		t.Fatalf("mkdir for %s: %v", relativePath, mkdirError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("write %s: %v", relativePath, writeError)
	}
}

func readArchiveEntries(t *testing.T, archivePath string) map[string]string {
	t.Helper()
	reader, openError := zip.OpenReader(archivePath)
	if openError != nil {
		t.Fatalf("open archive %s: %v", archivePath, openError)
	}
	defer reader.Close()

	entries := make(map[string]string)
	for _, entry := range reader.File {
		opened, entryError := entry.Open()
		if entryError != nil {
			t.Fatalf("open entry %s: %v", entry.Name, entryError)
		}
		content, readError := io.ReadAll(opened)
		opened.Close()
		if readError != nil {
			t.Fatalf("read entry %s: %v", entry.Name, readError)
		}
		entries[entry.Name] = string(content)
	}
	return entries
}

func buildSampleTree(t *testing.T) string {
	t.Helper()
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "a.py", "# comment\nimport os\nx=1 # trailing\n")
	writeTestFile(t, rootDirectory, "c.log", "log noise\n")
	writeTestFile(t, rootDirectory, "b/.local", "*.tmp\n")
	writeTestFile(t, rootDirectory, "b/keep.txt", "kept\n")
	writeTestFile(t, rootDirectory, "b/scratch.tmp", "dropped\n")
	return rootDirectory
}

func TestRunPackagesFilteredAndStrippedTree(t *testing.T) {
	t.Parallel()

	rootDirectory := buildSampleTree(t)
	archivePath := filepath.Join(t.TempDir(), "out.zip")

	stats, runError := Run(Options{
		SourceRoot:        rootDirectory,
		OutputPath:        archivePath,
		GlobalPatterns:    []string{"*.log"},
		LocalRuleFileName: ".local",
		RemoveComments:    true,
		Compression:       types.CompressionStore,
	})
	if runError != nil {
		t.Fatalf("Run: %v", runError)
	}

	entries := readArchiveEntries(t, archivePath)
	if len(entries) != 2 {
		t.Fatalf("archive holds %d entries, want 2: %#v", len(entries), entries)
	}
	if entries["a.py"] != "import os\nx=1\n" {
		t.Fatalf("a.py content = %q, want stripped source", entries["a.py"])
	}
	if entries["b/keep.txt"] != "kept\n" {
		t.Fatalf("b/keep.txt content = %q", entries["b/keep.txt"])
	}
	if _, present := entries["c.log"]; present {
		t.Fatalf("globally excluded c.log appears in archive")
	}
	if _, present := entries["b/scratch.tmp"]; present {
		t.Fatalf("locally excluded b/scratch.tmp appears in archive")
	}
	if _, present := entries["b/.local"]; present {
		t.Fatalf("the local rule file appears in archive")
	}

	if stats.IncludedFiles != 2 {
		t.Fatalf("IncludedFiles = %d, want 2", stats.IncludedFiles)
	}
	if stats.ExcludedFiles != 3 {
		t.Fatalf("ExcludedFiles = %d, want 3 (c.log, b/scratch.tmp, b/.local)", stats.ExcludedFiles)
	}
	if stats.TotalFiles != 5 {
		t.Fatalf("TotalFiles = %d, want 5", stats.TotalFiles)
	}
	if stats.StrippedFiles != 1 {
		t.Fatalf("StrippedFiles = %d, want 1", stats.StrippedFiles)
	}
	if stats.TotalSize == 0 || stats.PackedSize == 0 || stats.CompressedSize == 0 {
		t.Fatalf("size counters not populated: %#v", stats)
	}
	if stats.PackedSize >= stats.TotalSize {
		t.Fatalf("stripping should shrink packed bytes below original: %#v", stats)
	}
}

func TestRunParallelMatchesSequentialArchive(t *testing.T) {
	t.Parallel()

	rootDirectory := buildSampleTree(t)
	sequentialPath := filepath.Join(t.TempDir(), "sequential.zip")
	parallelPath := filepath.Join(t.TempDir(), "parallel.zip")

	baseOptions := Options{
		SourceRoot:        rootDirectory,
		GlobalPatterns:    []string{"*.log"},
		LocalRuleFileName: ".local",
		RemoveComments:    true,
		Compression:       types.CompressionStore,
	}

	sequentialOptions := baseOptions
	sequentialOptions.OutputPath = sequentialPath
	sequentialStats, sequentialError := Run(sequentialOptions)
	if sequentialError != nil {
		t.Fatalf("sequential Run: %v", sequentialError)
	}

	parallelOptions := baseOptions
	parallelOptions.OutputPath = parallelPath
	parallelOptions.Jobs = 4
	parallelStats, parallelError := Run(parallelOptions)
	if parallelError != nil {
		t.Fatalf("parallel Run: %v", parallelError)
	}

	sequentialEntries := readArchiveEntries(t, sequentialPath)
	parallelEntries := readArchiveEntries(t, parallelPath)
	if len(sequentialEntries) != len(parallelEntries) {
		t.Fatalf("entry counts differ: %d vs %d", len(sequentialEntries), len(parallelEntries))
	}
	for name, content := range sequentialEntries {
		if parallelEntries[name] != content {
			t.Fatalf("entry %s differs between sequential and parallel runs", name)
		}
	}

	if sequentialStats.TotalFiles != parallelStats.TotalFiles ||
		sequentialStats.IncludedFiles != parallelStats.IncludedFiles ||
		sequentialStats.ExcludedFiles != parallelStats.ExcludedFiles ||
		sequentialStats.StrippedFiles != parallelStats.StrippedFiles ||
		sequentialStats.TotalSize != parallelStats.TotalSize ||
		sequentialStats.PackedSize != parallelStats.PackedSize {
		t.Fatalf("stats differ:\nsequential %#v\nparallel   %#v", sequentialStats, parallelStats)
	}
}

func TestRunBinaryContentPassesThroughUnstripped(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	binaryContent := string([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02})
	writeTestFile(t, rootDirectory, "image.py", binaryContent)
	archivePath := filepath.Join(t.TempDir(), "out.zip")

	stats, runError := Run(Options{
		SourceRoot:     rootDirectory,
		OutputPath:     archivePath,
		RemoveComments: true,
		Compression:    types.CompressionStore,
	})
	if runError != nil {
		t.Fatalf("Run: %v", runError)
	}

	entries := readArchiveEntries(t, archivePath)
	if entries["image.py"] != binaryContent {
		t.Fatalf("binary payload altered by stripping")
	}
	if stats.StrippedFiles != 0 {
		t.Fatalf("StrippedFiles = %d, want 0 for binary content", stats.StrippedFiles)
	}
}

func TestRunRejectsMissingSourceDirectory(t *testing.T) {
	t.Parallel()

	archivePath := filepath.Join(t.TempDir(), "out.zip")
	if _, runError := Run(Options{
		SourceRoot:  filepath.Join(t.TempDir(), "absent"),
		OutputPath:  archivePath,
		Compression: types.CompressionStore,
	}); runError == nil {
		t.Fatalf("Run with a missing source directory should fail")
	}
}

func TestRunRejectsFileSourceRoot(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "only.txt", "x")

	if _, runError := Run(Options{
		SourceRoot:  filepath.Join(rootDirectory, "only.txt"),
		OutputPath:  filepath.Join(t.TempDir(), "out.zip"),
		Compression: types.CompressionStore,
	}); runError == nil {
		t.Fatalf("Run with a file as source root should fail")
	}
}

func TestRunRejectsUnknownCompression(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "a.txt", "x")
	if _, runError := Run(Options{
		SourceRoot:  rootDirectory,
		OutputPath:  filepath.Join(t.TempDir(), "out.zip"),
		Compression: "rar",
	}); runError == nil {
		t.Fatalf("Run with an unknown compression method should fail")
	}
}
