// Package checksum computes content digests used for snapshots and ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong entity tag for data, shortened to 16 hex characters.
func ETag(data []byte) string {
	return `"` + Sum(data)[:16] + `"`
}

// MatchETag reports whether any If-None-Match header value matches etag.
// Each value is a comma-separated list of entity tags or "*". Comparison is
// weak, so W/"x" matches "x".
func MatchETag(values []string, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
				return true
			}
		}
	}
	return false
}
