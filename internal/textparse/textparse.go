// Package textparse holds the small text-parsing helpers shared by the
// metadata and download components: percentage/byte-size decimals out of
// the extractor's progress lines, ANSI stripping, and UTF-8 repair.
package textparse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI color escape sequences from s.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// SanitizeUTF8 repairs strings the extractor emitted in CP1252/Latin-1 on
// platforms where its own output encoding isn't pinned to UTF-8. A valid
// UTF-8 string is returned unchanged; otherwise every byte of it is read
// as a Latin-1 code point (a superset of ASCII).
func SanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		runes = append(runes, rune(s[i]))
	}
	return string(runes)
}

// ParsePercent parses a progress percentage like "10.0%" or the
// comma-grouped/locale variant "1,234.5%": any leading non-digit run and
// the trailing "%" are stripped, "," is treated as a thousands separator,
// and the remainder is parsed as a float.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")

	start := 0
	for start < len(s) {
		c := s[start]
		if c >= '0' && c <= '9' {
			break
		}
		start++
	}
	s = s[start:]
	s = strings.ReplaceAll(s, ",", "")

	return strconv.ParseFloat(s, 64)
}

// ParseByteSize parses an SI/binary-suffixed size such as "4.12MiB" or
// "823.00KiB" into a byte count.
func ParseByteSize(s string) (int64, error) {
	v, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}
