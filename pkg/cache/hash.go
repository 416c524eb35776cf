package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key builds a namespaced cache key from content: "prefix:sha256(data)".
// Layout cache keys use the roadmap's serialized bytes as data, so any
// change to the node set produces a new key.
func Key(prefix string, data []byte) string {
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
