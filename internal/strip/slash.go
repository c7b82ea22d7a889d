package strip

import (
	"regexp"
)

var (
	blockCommentExpression = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentExpression  = regexp.MustCompile(`//[^\n]*`)

	bracketCommentExpression = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// stripSlash removes // line comments and non-greedy /* */ block comments.
//
// Known limitation, kept deliberately: this family does not track quote
// state, so a // or /* inside a string literal is treated as a comment
// start. Fixing it would change output for any codebase carrying comment
// markers inside string literals.
func stripSlash(content string) (string, bool) {
	result := blockCommentExpression.ReplaceAllString(content, "")
	result = lineCommentExpression.ReplaceAllString(result, "")
	return result, result != content
}

// stripBracket removes markup comments between <!-- and the nearest -->.
func stripBracket(content string) (string, bool) {
	result := bracketCommentExpression.ReplaceAllString(content, "")
	return result, result != content
}
