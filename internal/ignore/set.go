package ignore

// PatternSet is an ordered, immutable collection of compiled ignore rules.
// An empty set matches nothing.
type PatternSet struct {
	patterns []pattern
}

// Compile parses rule lines into a PatternSet. Blank lines and # comments
// are skipped; malformed lines degrade to literal path rules. Compile never
// fails.
func Compile(lines []string) *PatternSet {
	set := &PatternSet{}
	for _, line := range lines {
		if parsed := parsePatternLine(line); parsed != nil {
			set.patterns = append(set.patterns, *parsed)
		}
	}
	return set
}

// Empty reports whether the set contains no rules.
func (set *PatternSet) Empty() bool {
	return set == nil || len(set.patterns) == 0
}

// Matches reports whether the relative path is excluded by the set.
// Rules are evaluated in order and the last matching rule wins; a negated
// rule un-excludes a path matched by an earlier rule.
func (set *PatternSet) Matches(relativePath string, isDir bool) bool {
	_, excluded := set.Decide(relativePath, isDir)
	return excluded
}

// Decide evaluates the set against a relative path. matched reports whether
// any rule expressed an opinion; excluded holds the decision of the last
// matching rule. When matched is false the set is silent about the path.
func (set *PatternSet) Decide(relativePath string, isDir bool) (matched bool, excluded bool) {
	if set.Empty() {
		return false, false
	}
	pathSegments := splitPath(relativePath)
	context := &matchContext{}
	for index := range set.patterns {
		rule := &set.patterns[index]
		if rule.match(pathSegments, isDir, context) {
			matched = true
			excluded = !rule.negated
		}
	}
	return matched, excluded
}
