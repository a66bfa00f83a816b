package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func Hash(data string) string {
	hash := sha256.New()
	hash.Write([]byte(data))
	return hex.EncodeToString(hash.Sum(nil))
}

// CompositeKey derives a stable document id from its parts. Each part is hashed with
// its length in front, so parts may contain any character without two different
// part lists sharing a key.
func CompositeKey(parts ...string) string {
	hash := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(hash, "%d:%s", len(p), p)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
