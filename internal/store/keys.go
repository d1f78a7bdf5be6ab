// ABOUTME: Composite key construction for secondary-index addressing
// ABOUTME: Joins ordered string parts into a single injective key

package store

import "strings"

// keyDelimiter separates parts inside a composite key.
const keyDelimiter = ":"

var keyEscaper = strings.NewReplacer(`\`, `\\`, keyDelimiter, `\`+keyDelimiter)

// KeyFromParts joins the given parts into a composite key. Composition is
// order-sensitive and injective: two distinct part sequences never produce
// the same key, even when parts contain the delimiter (they are escaped).
//
// Calling with zero parts or an empty part is a programming error and panics.
func KeyFromParts(parts ...string) string {
	if len(parts) == 0 {
		panic("store: KeyFromParts requires at least one part")
	}

	escaped := make([]string, len(parts))
	for i, p := range parts {
		if p == "" {
			panic("store: KeyFromParts part must not be empty")
		}
		escaped[i] = keyEscaper.Replace(p)
	}

	return strings.Join(escaped, keyDelimiter)
}
