package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Resolver combines one global PatternSet with per-directory local override
// rule sets discovered lazily during traversal. Local sets are cached for
// the lifetime of the resolver, which callers scope to a single walk so
// concurrent traversals never share state.
//
// Precedence: the nearest enclosing local rule set that expresses an opinion
// about a path decides it; farther ancestors and then the global set are
// consulted only while nearer sets stay silent.
type Resolver struct {
	global        *PatternSet
	root          string
	localFileName string
	localSets     map[string]*PatternSet
	logger        *zap.Logger
}

// NewResolver creates a resolver rooted at the absolute source directory.
// An empty localFileName disables local overrides entirely.
func NewResolver(global *PatternSet, rootPath string, localFileName string, logger *zap.Logger) *Resolver {
	if global == nil {
		global = Compile(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		global:        global,
		root:          rootPath,
		localFileName: localFileName,
		localSets:     make(map[string]*PatternSet),
		logger:        logger,
	}
}

// LocalRuleFileName returns the configured override filename, empty when
// local overrides are disabled.
func (resolver *Resolver) LocalRuleFileName() string {
	return resolver.localFileName
}

// Excluded decides whether the slash-separated path relative to the source
// root should be excluded. For directories the directory's own rule file
// participates in the decision, so a local "!." re-includes a directory the
// global set excludes.
func (resolver *Resolver) Excluded(relativePath string, isDir bool) bool {
	if relativePath == "." || relativePath == "" {
		return false
	}

	for _, directory := range resolver.scopeChain(relativePath, isDir) {
		localSet := resolver.localSet(directory)
		if localSet.Empty() {
			continue
		}
		matched, excluded := localSet.Decide(rebase(relativePath, directory), isDir)
		if matched {
			return excluded
		}
	}

	return resolver.global.Matches(relativePath, isDir)
}

// scopeChain lists the directories whose local rule sets may speak about the
// path, nearest first. A directory's chain starts with itself; a file's with
// its parent.
func (resolver *Resolver) scopeChain(relativePath string, isDir bool) []string {
	if resolver.localFileName == "" {
		return nil
	}
	start := relativePath
	if !isDir {
		start = path.Dir(relativePath)
	}
	var chain []string
	for current := start; ; current = path.Dir(current) {
		chain = append(chain, current)
		if current == "." || current == "/" {
			break
		}
	}
	return chain
}

// localSet returns the cached local rule set for a directory, loading it on
// first use. A missing file yields nil; an unreadable file degrades to an
// empty set with a logged warning.
func (resolver *Resolver) localSet(relativeDirectory string) *PatternSet {
	if cached, known := resolver.localSets[relativeDirectory]; known {
		return cached
	}

	rulePath := filepath.Join(resolver.root, filepath.FromSlash(relativeDirectory), resolver.localFileName)
	content, readError := os.ReadFile(rulePath)
	if readError != nil {
		if !os.IsNotExist(readError) {
			resolver.logger.Warn("unreadable local rule file, treating as empty",
				zap.String("path", rulePath), zap.Error(readError))
		}
		resolver.localSets[relativeDirectory] = nil
		return nil
	}

	compiled := Compile(strings.Split(string(content), "\n"))
	resolver.localSets[relativeDirectory] = compiled
	return compiled
}

// rebase rewrites a root-relative path so it is relative to the given
// directory. The directory itself rebases to ".".
func rebase(relativePath, directory string) string {
	if directory == "." || directory == "" {
		return relativePath
	}
	if relativePath == directory {
		return "."
	}
	if strings.HasPrefix(relativePath, directory+"/") {
		return relativePath[len(directory)+1:]
	}
	return relativePath
}
