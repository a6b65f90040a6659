// Package formatid implements the composite format identifier: an
// ordered, non-empty sequence of atomic tokens chosen by the extractor
// (e.g. "137", "251"), joined by "+". Order is meaningful — the first
// token is the video track — so tokens are never sorted.
package formatid

import "strings"

// ID is an ordered sequence of atomic format tokens. The zero value is the
// empty ID.
type ID struct {
	tokens []string
}

// Parse splits s on "+", discarding empty tokens.
func Parse(s string) ID {
	if s == "" {
		return ID{}
	}
	parts := strings.Split(s, "+")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return ID{tokens: tokens}
}

// Single builds a single-token ID.
func Single(token string) ID {
	if token == "" {
		return ID{}
	}
	return ID{tokens: []string{token}}
}

// String joins the tokens with "+". The result never contains whitespace
// and contains "+" only as a separator, by construction.
func (id ID) String() string {
	return strings.Join(id.tokens, "+")
}

// IsEmpty reports whether id has no tokens.
func (id ID) IsEmpty() bool {
	return len(id.tokens) == 0
}

// CompoundIDs returns the atomic singleton IDs in order.
func (id ID) CompoundIDs() []ID {
	out := make([]ID, len(id.tokens))
	for i, t := range id.tokens {
		out[i] = ID{tokens: []string{t}}
	}
	return out
}

// Equal reports whether id and other have the same string form.
func (id ID) Equal(other ID) bool {
	return id.String() == other.String()
}

// Less orders IDs by their lexicographic string form.
func (id ID) Less(other ID) bool {
	return id.String() < other.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	*id = Parse(string(text))
	return nil
}
