// Package walker traverses a source tree depth-first, consulting the ignore
// resolver to prune excluded directories and filter files.
package walker

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/srcpack/internal/ignore"
	"github.com/temirov/srcpack/internal/utils"
)

// Callbacks receives traversal results. Visit is called for every included
// file with its absolute path and slash-separated root-relative path; a
// Visit error aborts the walk. Excluded, when set, is notified about
// entries the resolver rejected.
type Callbacks struct {
	Visit    func(absolutePath string, relativePath string) error
	Excluded func(relativePath string, isDir bool)
}

// Walk traverses rootPath depth-first. Siblings come in the order the
// filesystem reports them. Excluded directories are pruned hard: none of
// their descendants are visited and no rule files beneath them are read.
// Unreadable directories are logged and skipped, never fatal.
func Walk(rootPath string, resolver *ignore.Resolver, logger *zap.Logger, callbacks Callbacks) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callbacks.Visit == nil {
		return fmt.Errorf("walker: visit callback is required")
	}
	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		return fmt.Errorf("walker: stat root %s: %w", rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("walker: root %s is not a directory", rootPath)
	}
	return walkDirectory(rootPath, ".", resolver, logger, callbacks)
}

func walkDirectory(rootPath string, relativeDirectory string, resolver *ignore.Resolver, logger *zap.Logger, callbacks Callbacks) error {
	absoluteDirectory := filepath.Join(rootPath, filepath.FromSlash(relativeDirectory))
	entries, readError := os.ReadDir(absoluteDirectory)
	if readError != nil {
		logger.Warn("unreadable directory skipped",
			zap.String("path", utils.RelativePathOrSelf(absoluteDirectory, rootPath)),
			zap.Error(readError))
		return nil
	}

	for _, entry := range entries {
		entryRelative := path.Join(relativeDirectory, entry.Name())
		entryAbsolute := filepath.Join(absoluteDirectory, entry.Name())

		if entry.IsDir() {
			if resolver.Excluded(entryRelative, true) {
				logger.Debug("excluded directory", zap.String("path", entryRelative))
				if callbacks.Excluded != nil {
					callbacks.Excluded(entryRelative, true)
				}
				continue
			}
			if walkError := walkDirectory(rootPath, entryRelative, resolver, logger, callbacks); walkError != nil {
				return walkError
			}
			continue
		}

		if !entry.Type().IsRegular() {
			logger.Debug("skipping irregular entry", zap.String("path", entryRelative))
			continue
		}

		// The active local rule files are traversal configuration, not
		// snapshot content.
		if resolver.LocalRuleFileName() != "" && entry.Name() == resolver.LocalRuleFileName() {
			if callbacks.Excluded != nil {
				callbacks.Excluded(entryRelative, false)
			}
			continue
		}

		if resolver.Excluded(entryRelative, false) {
			logger.Debug("excluded file", zap.String("path", entryRelative))
			if callbacks.Excluded != nil {
				callbacks.Excluded(entryRelative, false)
			}
			continue
		}

		if visitError := callbacks.Visit(entryAbsolute, entryRelative); visitError != nil {
			return visitError
		}
	}
	return nil
}
