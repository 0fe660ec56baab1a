package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts distinguishes renderings of the same pack.
type ArtifactKeyOpts struct {
	Format    string // "dot", "svg", or "png"
	ShowFiles bool   // whether file nodes are included in the graph
}

// ArtifactKey generates a key for a rendered artifact of the pack whose
// content hash is packHash.
func ArtifactKey(packHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", packHash, opts)
}

// ScopedKey prepends a namespace prefix to key. Useful when several packs
// (or several server instances) share one Redis backend.
func ScopedKey(prefix, key string) string {
	return prefix + key
}
