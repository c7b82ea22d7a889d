// Package strip removes comments and doc-strings from source text using a
// closed set of per-language-family line scanners. None of the scanners
// builds an AST; they track just enough quote and delimiter state to avoid
// corrupting string literals.
package strip

import (
	"github.com/temirov/srcpack/internal/utils"
)

// Family identifies the scanning strategy for a source syntax.
type Family int

const (
	// FamilyNone passes content through unchanged.
	FamilyNone Family = iota
	// FamilyLineHash strips quote-aware # line comments.
	FamilyLineHash
	// FamilySlash strips // line comments and /* */ block comments.
	FamilySlash
	// FamilyDocString strips # comments and doc-string spans from
	// triple-quoted-literal languages.
	FamilyDocString
	// FamilyBracket strips <!-- --> markup comments.
	FamilyBracket
)

// scanners maps each family to its pure scanning function. The table keeps
// the variant set closed and exhaustively testable.
var scanners = map[Family]func(string) (string, bool){
	FamilyLineHash:  stripLineHash,
	FamilySlash:     stripSlash,
	FamilyDocString: stripDocString,
	FamilyBracket:   stripBracket,
}

var familyByExtension = map[string]Family{
	".py": FamilyDocString,

	".js":   FamilySlash,
	".jsx":  FamilySlash,
	".ts":   FamilySlash,
	".tsx":  FamilySlash,
	".java": FamilySlash,
	".c":    FamilySlash,
	".h":    FamilySlash,
	".cc":   FamilySlash,
	".cpp":  FamilySlash,
	".hpp":  FamilySlash,
	".go":   FamilySlash,
	".css":  FamilySlash,

	".sh":   FamilyLineHash,
	".bash": FamilyLineHash,
	".zsh":  FamilyLineHash,
	".rb":   FamilyLineHash,
	".pl":   FamilyLineHash,
	".yaml": FamilyLineHash,
	".yml":  FamilyLineHash,
	".toml": FamilyLineHash,

	".html": FamilyBracket,
	".htm":  FamilyBracket,
	".xml":  FamilyBracket,
	".svg":  FamilyBracket,
	".md":   FamilyBracket,
}

// FamilyForExtension maps a file extension to its language family.
// Unknown extensions map to FamilyNone.
func FamilyForExtension(extension string) Family {
	if family, supported := familyByExtension[utils.NormalizeExtension(extension)]; supported {
		return family
	}
	return FamilyNone
}

// Supported reports whether comment removal applies to the extension.
func Supported(extension string) bool {
	return FamilyForExtension(extension) != FamilyNone
}

// Strip removes comments from content according to the extension's language
// family and reports whether the content changed. Unsupported extensions
// return the content unchanged. Any internal failure is absorbed: the
// original content comes back with modified=false, so a stripping problem
// can never abort packaging of a file.
func Strip(content string, extension string) (result string, modified bool) {
	scanner := scanners[FamilyForExtension(extension)]
	if scanner == nil {
		return content, false
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			result = content
			modified = false
		}
	}()
	return scanner(content)
}
