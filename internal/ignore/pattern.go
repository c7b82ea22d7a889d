// Package ignore compiles gitignore-dialect rules and resolves include or
// exclude decisions across a directory tree, combining one global rule set
// with per-directory local override files.
package ignore

import (
	"strings"
)

// maxMatchIterations bounds backtracking across one Matches call so a
// pathological pattern cannot consume unbounded CPU.
const maxMatchIterations = 10000

// pattern is one parsed ignore rule. Rules are evaluated in order; the last
// matching rule decides.
type pattern struct {
	raw      string
	negated  bool
	dirOnly  bool
	anchored bool
	segments []segment
}

// segment is one part of a pattern split by "/".
type segment struct {
	value      string
	wildcard   bool
	doubleStar bool
}

// parsePatternLine parses a single rule line. It returns nil for blank lines
// and comments. Malformed lines never fail: they degrade to a literal path
// rule built from the trimmed line text.
func parsePatternLine(line string) *pattern {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	raw := line
	negated := false
	if strings.HasPrefix(line, "\\!") {
		line = line[1:]
	} else if strings.HasPrefix(line, "!") {
		negated = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "\\#") {
		line = line[1:]
	}

	dirOnly := false
	if strings.HasSuffix(line, "/") && line != "/" {
		dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	if line == "" || hasTrailingEscape(line) {
		return literalPattern(raw, negated)
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = line[1:]
		if line == "" {
			return literalPattern(raw, negated)
		}
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		anchored = true
	}

	return &pattern{
		raw:      raw,
		negated:  negated,
		dirOnly:  dirOnly,
		anchored: anchored,
		segments: parseSegments(line),
	}
}

// literalPattern builds the degraded rule for a malformed line: the trimmed
// text matched as a literal relative path.
func literalPattern(raw string, negated bool) *pattern {
	text := strings.TrimPrefix(raw, "!")
	text = strings.Trim(text, "/")
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, segment{value: part})
	}
	if len(segments) == 0 {
		return nil
	}
	return &pattern{
		raw:      raw,
		negated:  negated,
		anchored: len(segments) > 1,
		segments: segments,
	}
}

func hasTrailingEscape(line string) bool {
	trailing := 0
	for index := len(line) - 1; index >= 0 && line[index] == '\\'; index-- {
		trailing++
	}
	return trailing%2 == 1
}

// parseSegments splits a pattern by "/" and classifies each segment.
func parseSegments(text string) []segment {
	parts := strings.Split(text, "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		current := segment{value: part}
		if part == "**" {
			current.doubleStar = true
			current.value = ""
		} else if strings.ContainsAny(part, "*?\\[") {
			current.wildcard = true
		}
		segments = append(segments, current)
	}
	return segments
}

// matchContext tracks a shared backtrack budget for one Matches call.
type matchContext struct {
	iterations int
}

func (context *matchContext) tick() bool {
	context.iterations++
	return context.iterations <= maxMatchIterations
}

// match reports whether the pattern matches the given path segments.
func (p *pattern) match(pathSegments []string, isDir bool, context *matchContext) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if !context.tick() {
		return false
	}

	if p.anchored {
		return matchSegments(p.segments, pathSegments, context)
	}

	// Floating patterns may match starting at any path segment.
	for start := 0; start <= len(pathSegments)-len(p.segments); start++ {
		if !context.tick() {
			return false
		}
		if matchSegments(p.segments, pathSegments[start:], context) {
			return true
		}
	}
	if len(p.segments) > 0 && p.segments[0].doubleStar {
		return matchSegments(p.segments, pathSegments, context)
	}
	return false
}

// matchSegments recursively matches pattern segments against path segments,
// expanding ** across segment boundaries.
func matchSegments(patternSegments []segment, pathSegments []string, context *matchContext) bool {
	if !context.tick() {
		return false
	}
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}

	current := patternSegments[0]
	if current.doubleStar {
		for index := 0; index <= len(pathSegments); index++ {
			if matchSegments(patternSegments[1:], pathSegments[index:], context) {
				return true
			}
			if !context.tick() {
				return false
			}
		}
		return false
	}

	if len(pathSegments) == 0 {
		return false
	}
	if !matchSingleSegment(current, pathSegments[0], context) {
		return false
	}
	return matchSegments(patternSegments[1:], pathSegments[1:], context)
}

// matchSingleSegment matches one pattern segment against one path segment.
func matchSingleSegment(patternSegment segment, pathSegment string, context *matchContext) bool {
	if patternSegment.doubleStar {
		return true
	}
	if !patternSegment.wildcard {
		return patternSegment.value == pathSegment
	}
	return matchGlob(patternSegment.value, pathSegment, context)
}

// matchGlob matches a glob pattern against a string. Supports * (zero or
// more characters), ? (exactly one character), and \ escapes.
func matchGlob(globPattern, text string, context *matchContext) bool {
	if !strings.ContainsAny(globPattern, "*?\\") {
		return globPattern == text
	}
	if globPattern == "*" {
		return true
	}
	return matchGlobRecursive(globPattern, text, context)
}

func matchGlobRecursive(globPattern, text string, context *matchContext) bool {
	for len(globPattern) > 0 {
		if !context.tick() {
			return false
		}

		if globPattern[0] == '*' {
			for len(globPattern) > 0 && globPattern[0] == '*' {
				globPattern = globPattern[1:]
			}
			if len(globPattern) == 0 {
				return true
			}
			for index := 0; index <= len(text); index++ {
				if matchGlobRecursive(globPattern, text[index:], context) {
					return true
				}
				if !context.tick() {
					return false
				}
			}
			return false
		}

		if globPattern[0] == '?' {
			if len(text) == 0 {
				return false
			}
			globPattern = globPattern[1:]
			text = text[1:]
			continue
		}

		if globPattern[0] == '\\' && len(globPattern) > 1 {
			globPattern = globPattern[1:]
		}

		if len(text) == 0 || globPattern[0] != text[0] {
			return false
		}
		globPattern = globPattern[1:]
		text = text[1:]
	}
	return len(text) == 0
}

// splitPath splits a slash-separated relative path into non-empty segments.
// The path "." denotes the base directory itself and yields a single "."
// segment so a literal "." rule can address it.
func splitPath(relativePath string) []string {
	if relativePath == "" || relativePath == "." {
		return []string{"."}
	}
	parts := strings.Split(relativePath, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return []string{"."}
	}
	return segments
}
