// ABOUTME: Primary identifier generation for new records
// ABOUTME: Produces fixed-length hex ids from the system CSPRNG

package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idBytes is the entropy of a primary identifier. 20 bytes (160 bits) keeps
// ids unguessable across tenants and makes collisions negligible.
const idBytes = 20

// NewID returns a new opaque primary identifier: 40 hex characters drawn from
// crypto/rand. IDs are never derived from record content or wall-clock time.
// A failing system CSPRNG is unrecoverable and panics.
func NewID() string {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("store: reading random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
