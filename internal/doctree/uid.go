package doctree

import (
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UIDPrefix namespaces every node identifier in a symbolic tree.
const UIDPrefix = "sync_"

// UIDGenerator produces node identifiers.
type UIDGenerator func() string

// RandomUIDs returns 8 hex characters (32 random bits) behind the prefix.
// Collisions are not detected.
func RandomUIDs(prefix string) UIDGenerator {
	return func() string {
		id := uuid.New()
		return prefix + hex.EncodeToString(id[:4])
	}
}

// SequentialUIDs returns a monotonic counter behind the prefix. Identifiers
// never repeat for the lifetime of the generator.
func SequentialUIDs(prefix string) UIDGenerator {
	var n atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s%08x", prefix, n.Add(1)-1)
	}
}

// NewUIDGenerator selects a generator by scheme name ("random" or "sequential").
func NewUIDGenerator(scheme string) (UIDGenerator, error) {
	switch scheme {
	case "random", "":
		return RandomUIDs(UIDPrefix), nil
	case "sequential":
		return SequentialUIDs(UIDPrefix), nil
	default:
		return nil, fmt.Errorf("unknown uid scheme: %q", scheme)
	}
}
