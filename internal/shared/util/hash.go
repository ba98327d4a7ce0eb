package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashUserKey maps a user ID (including "guest:" identities) to a stable hex
// prefix for object keys, so raw IDs never appear in storage paths.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return hex.EncodeToString(sum[:])
}
