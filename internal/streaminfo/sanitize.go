package streaminfo

import (
	"strings"
	"unicode"

	"ytstream/internal/constants"
)

var legalChars = buildLegalSet(constants.FilenameLegalChars)

func buildLegalSet(chars string) map[rune]bool {
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return set
}

// sanitizeFileBaseName implements fileBaseName()'s derivation rule:
// letters, digits, and the fixed legal set are kept; double quotes become
// single quotes; any other codepoint becomes "_"; runs of "_" collapse to
// one; leading/trailing whitespace is trimmed.
func sanitizeFileBaseName(title string) string {
	title = strings.ReplaceAll(title, `"`, `'`)

	var b strings.Builder
	lastWasUnderscore := false
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasUnderscore = false
		case legalChars[r]:
			b.WriteRune(r)
			lastWasUnderscore = false
		default:
			if !lastWasUnderscore {
				b.WriteRune('_')
				lastWasUnderscore = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}
