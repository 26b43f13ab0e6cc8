// Package digest computes the content address used to name rendered artifacts.
package digest

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
)

// Width is the number of hex characters kept from the MD5 sum.
//
// 32 bits is narrow: by the birthday bound a collision becomes a coin flip
// after roughly 77,000 distinct contents. The width is fixed so that artifacts
// already cached under 8-character names keep resolving.
const Width = 8

// Sum returns the digest of content: the first Width hex characters of its MD5 sum.
func Sum(content []byte) string {
	sum := md5.Sum(content) //nolint:gosec

	return hex.EncodeToString(sum[:])[:Width]
}

// Valid reports whether s has the shape of a digest produced by Sum.
func Valid(s string) bool {
	if len(s) != Width {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
