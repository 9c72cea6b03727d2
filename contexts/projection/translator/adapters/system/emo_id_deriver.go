// Package system provides the translator's concrete collaborators for
// wall-clock time, event ids, and deterministic EMO id derivation.
package system

import (
	"time"

	"github.com/google/uuid"
)

// emoNamespace is the fixed DNS namespace UUID the original translator
// reuses so the same memory id always derives the same emo id.
var emoNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// EMOIDDeriver derives EMO ids via UUIDv5 over the fixed namespace.
type EMOIDDeriver struct{}

func (EMOIDDeriver) Derive(memoryID string) string {
	return uuid.NewSHA1(emoNamespace, []byte("memory:"+memoryID)).String()
}

// SystemClock is the wall-clock Clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator mints event ids for derived emo.*/memory.embedding_available
// events.
type IDGenerator struct{}

func (IDGenerator) NewID() string { return uuid.NewString() }
