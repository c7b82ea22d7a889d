package strip

import (
	"strings"
)

const (
	tripleDoubleQuote = `"""`
	tripleSingleQuote = "'''"
)

// stripDocString handles languages where a triple-quoted string literal
// positioned as the first statement of a module, function, or class body
// doubles as documentation. Doc-string spans are elided entirely, including
// their delimiters; every other triple-quoted literal is preserved verbatim.
// Hash comments are stripped with the quote-aware line scanner, but never
// inside an open triple-quote span.
func stripDocString(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inDocString := false
	inLiteral := false
	delimiter := ""

	for index := 0; index < len(lines); index++ {
		line := lines[index]
		trimmed := strings.TrimSpace(line)

		if inDocString || inLiteral {
			if delimiter != "" && strings.Count(line, delimiter)%2 == 1 {
				if inDocString {
					inDocString = false
					delimiter = ""
					continue
				}
				inLiteral = false
				delimiter = ""
				result = append(result, line)
				continue
			}
			if inDocString {
				continue
			}
			result = append(result, line)
			continue
		}

		if trimmed == "" {
			result = append(result, line)
			continue
		}

		if opening := tripleDelimiterPrefix(trimmed); opening != "" {
			if isDocStringStart(lines, index) {
				if strings.Count(trimmed, opening) >= 2 {
					// Single-line doc-string, dropped whole.
					continue
				}
				inDocString = true
				delimiter = opening
				continue
			}
			if strings.Count(trimmed, opening) == 1 {
				inLiteral = true
				delimiter = opening
			}
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		// A line opening an ordinary multi-line literal mid-expression is
		// preserved whole, including any # characters inside it.
		if opened := opensTripleLiteral(line); opened != "" {
			inLiteral = true
			delimiter = opened
			result = append(result, line)
			continue
		}

		if cut, found := cutUnquotedHash(line); found {
			line = strings.TrimRight(line[:cut], " \t")
		}
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}

	joined := strings.Join(result, "\n")
	return joined, joined != content
}

// tripleDelimiterPrefix returns the triple-quote delimiter the trimmed line
// starts with, or "" when it starts with neither.
func tripleDelimiterPrefix(trimmed string) string {
	if strings.HasPrefix(trimmed, tripleDoubleQuote) {
		return tripleDoubleQuote
	}
	if strings.HasPrefix(trimmed, tripleSingleQuote) {
		return tripleSingleQuote
	}
	return ""
}

// opensTripleLiteral reports which triple-quote delimiter the line leaves
// open, or "" when the line is balanced.
func opensTripleLiteral(line string) string {
	if strings.Count(line, tripleDoubleQuote)%2 == 1 {
		return tripleDoubleQuote
	}
	if strings.Count(line, tripleSingleQuote)%2 == 1 {
		return tripleSingleQuote
	}
	return ""
}

// isDocStringStart reports whether the triple-quoted span opening at the
// given line is documentation: either the first non-blank, non-comment
// statement of the file, or immediately preceded (skipping blanks and
// comments) by a definition header line.
func isDocStringStart(lines []string, index int) bool {
	trimmed := strings.TrimSpace(lines[index])
	if tripleDelimiterPrefix(trimmed) == "" {
		return false
	}

	moduleStart := true
	for previousIndex := 0; previousIndex < index; previousIndex++ {
		previous := strings.TrimSpace(lines[previousIndex])
		if previous != "" && !strings.HasPrefix(previous, "#") {
			moduleStart = false
			break
		}
	}
	if moduleStart {
		return true
	}

	for previousIndex := index - 1; previousIndex >= 0; previousIndex-- {
		previous := strings.TrimSpace(lines[previousIndex])
		if previous == "" || strings.HasPrefix(previous, "#") {
			continue
		}
		if strings.HasPrefix(previous, "def ") ||
			strings.HasPrefix(previous, "class ") ||
			strings.HasPrefix(previous, "async def ") ||
			strings.HasSuffix(previous, ":") {
			return true
		}
		return false
	}
	return false
}
