package util

import (
	"crypto/sha1" //nolint:gosec // used for file naming, not for security
	"encoding/hex"
)

// SHA1Hex returns the lowercase hex SHA-1 digest of s (40 chars).
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
