// Package packager orchestrates the packaging pipeline: tree traversal,
// optional comment stripping, and archive writing, with statistics
// accumulation. All per-file failures are absorbed here; only archive-level
// and precondition failures terminate a run.
package packager

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/srcpack/internal/archive"
	"github.com/temirov/srcpack/internal/ignore"
	"github.com/temirov/srcpack/internal/strip"
	"github.com/temirov/srcpack/internal/tokenizer"
	"github.com/temirov/srcpack/internal/types"
	"github.com/temirov/srcpack/internal/utils"
	"github.com/temirov/srcpack/internal/walker"
)

// Options configures one packaging run.
type Options struct {
	SourceRoot        string
	OutputPath        string
	GlobalPatterns    []string
	LocalRuleFileName string
	RemoveComments    bool
	Compression       string
	Jobs              int
	TokenCounter      tokenizer.Counter
	TokenModel        string
	Logger            *zap.Logger
}

// payload is one file prepared for the archive. A failed payload records an
// unreadable file so the writer side can count it.
type payload struct {
	archiveName string
	data        []byte
	sizeBytes   int64
	stripped    bool
	text        bool
	failed      bool
}

type pipeline struct {
	options  Options
	logger   *zap.Logger
	resolver *ignore.Resolver
	writer   *archive.Writer
	stats    types.PackagingStats
}

// Run packages the source tree into the output archive and returns the
// accumulated statistics. The archive handle is closed on every exit path;
// a partial archive produced by a failed run stays on disk.
func Run(options Options) (types.PackagingStats, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stats := types.PackagingStats{TokenModel: options.TokenModel}

	validatedRoot, validationError := validateSourceRoot(options.SourceRoot)
	if validationError != nil {
		return stats, validationError
	}

	globalSet := ignore.Compile(options.GlobalPatterns)
	resolver := ignore.NewResolver(globalSet, validatedRoot.AbsolutePath, options.LocalRuleFileName, logger)

	writer, openError := archive.Open(options.OutputPath, options.Compression)
	if openError != nil {
		return stats, openError
	}

	run := &pipeline{
		options:  options,
		logger:   logger,
		resolver: resolver,
		writer:   writer,
		stats:    stats,
	}
	run.options.SourceRoot = validatedRoot.AbsolutePath

	var runError error
	if options.Jobs > 1 {
		runError = run.runParallel()
	} else {
		runError = run.runSequential()
	}

	closeError := writer.Close()
	if runError != nil {
		return run.stats, runError
	}
	if closeError != nil {
		return run.stats, fmt.Errorf("finalize archive %s: %w", options.OutputPath, closeError)
	}

	if outputInfo, outputStatError := os.Stat(options.OutputPath); outputStatError == nil {
		run.stats.CompressedSize = outputInfo.Size()
	}
	return run.stats, nil
}

// validateSourceRoot checks the packaging precondition before any traversal
// starts: the source root exists and is a directory.
func validateSourceRoot(sourcePath string) (types.ValidatedPath, error) {
	rootInfo, statError := os.Stat(sourcePath)
	if statError != nil {
		return types.ValidatedPath{}, fmt.Errorf("source directory %s: %w", sourcePath, statError)
	}
	if !rootInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf("source path %s is not a directory", sourcePath)
	}
	absolutePath, absoluteError := filepath.Abs(sourcePath)
	if absoluteError != nil {
		return types.ValidatedPath{}, fmt.Errorf("resolve source directory %s: %w", sourcePath, absoluteError)
	}
	return types.ValidatedPath{AbsolutePath: absolutePath, IsDir: true}, nil
}

func (run *pipeline) runSequential() error {
	callbacks := walker.Callbacks{
		Visit: func(absolutePath string, relativePath string) error {
			run.stats.TotalFiles++
			prepared := run.preparePayload(absolutePath, relativePath)
			if prepared.failed {
				run.stats.ExcludedFiles++
				return nil
			}
			return run.writePayload(prepared)
		},
		Excluded: func(relativePath string, isDir bool) {
			if !isDir {
				run.stats.TotalFiles++
				run.stats.ExcludedFiles++
			}
		},
	}
	return walker.Walk(run.options.SourceRoot, run.resolver, run.logger, callbacks)
}

// preparePayload reads one file and applies comment stripping when enabled.
// Binary and undecodable content passes through untouched; an unreadable
// file yields a failed payload, never an error.
func (run *pipeline) preparePayload(absolutePath string, relativePath string) payload {
	data, readError := os.ReadFile(absolutePath)
	if readError != nil {
		run.logger.Warn("unreadable file skipped", zap.String("path", relativePath), zap.Error(readError))
		return payload{archiveName: relativePath, failed: true}
	}

	prepared := payload{
		archiveName: relativePath,
		data:        data,
		sizeBytes:   int64(len(data)),
	}
	if utils.IsBinary(data) {
		return prepared
	}
	prepared.text = true
	if !run.options.RemoveComments {
		return prepared
	}

	strippedText, modified := strip.Strip(string(data), path.Ext(relativePath))
	if modified {
		prepared.data = []byte(strippedText)
		prepared.stripped = true
	}
	return prepared
}

// writePayload appends one prepared payload to the archive and updates the
// statistics. Archive errors are fatal and propagate.
func (run *pipeline) writePayload(prepared payload) error {
	run.stats.TotalSize += prepared.sizeBytes
	if writeError := run.writer.WriteBytes(prepared.archiveName, prepared.data); writeError != nil {
		return writeError
	}
	run.stats.IncludedFiles++
	run.stats.PackedSize += int64(len(prepared.data))
	if prepared.stripped {
		run.stats.StrippedFiles++
	}
	if run.options.TokenCounter != nil && prepared.text {
		tokenCount, countError := run.options.TokenCounter.CountString(string(prepared.data))
		if countError != nil {
			run.logger.Warn("token counting failed", zap.String("path", prepared.archiveName), zap.Error(countError))
		} else {
			run.stats.Tokens += tokenCount
		}
	}
	run.logger.Debug("added to archive",
		zap.String("path", prepared.archiveName),
		zap.Int64("bytes", prepared.sizeBytes),
		zap.Bool("stripped", prepared.stripped))
	return nil
}
