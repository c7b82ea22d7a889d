package strip

import (
	"strings"
)

// cutUnquotedHash finds the first # that starts a comment, scanning left to
// right while tracking single-quote, double-quote, and backslash-escape
// state. A # inside an open quote never starts a comment.
func cutUnquotedHash(line string) (int, bool) {
	inSingle := false
	inDouble := false
	escaped := false
	for index, character := range line {
		if escaped {
			escaped = false
			continue
		}
		switch character {
		case '\\':
			escaped = true
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return index, true
			}
		}
	}
	return 0, false
}

// stripLineHash truncates each line at its first unquoted # marker.
// Full-line comments leave a residual blank line behind.
func stripLineHash(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if cut, found := cutUnquotedHash(line); found {
			lines[index] = strings.TrimRight(line[:cut], " \t")
		}
	}
	result := strings.Join(lines, "\n")
	return result, result != content
}
