// Package hostmatch implements the host-pattern predicate used by a
// surrounding system to decide whether a URL's host is claimed by a given
// extractor.
package hostmatch

import "strings"

// Matches reports whether host (dot-separated, e.g. "videos.absnews.com")
// satisfies regexHost, a pattern whose tokens are separated by "." or ":"
// (e.g. "absnews.com" or "absnews:videos"). Every mandatory token in the
// pattern must appear, case-insensitively, as some dot-component of host.
// Token order in regexHost does not affect the result.
func Matches(host, regexHost string) bool {
	hostParts := splitDotComponents(host)
	tokens := splitPattern(regexHost)

	if len(tokens) == 0 {
		return false
	}

	for _, token := range tokens {
		if !containsComponent(hostParts, token) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether host matches any of patterns.
func MatchesAny(host string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(host, p) {
			return true
		}
	}
	return false
}

func splitDotComponents(host string) []string {
	parts := strings.Split(strings.ToLower(host), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitPattern(regexHost string) []string {
	fields := strings.FieldsFunc(strings.ToLower(regexHost), func(r rune) bool {
		return r == '.' || r == ':'
	})
	return fields
}

func containsComponent(components []string, token string) bool {
	for _, c := range components {
		if c == token {
			return true
		}
	}
	return false
}
