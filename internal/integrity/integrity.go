// Package integrity provides the digest and keyed-signature primitives used
// by the archive format.
//
// Checksums detect accidental corruption of one payload; the HMAC signature
// over the manifest entry table detects deliberate modification by anyone
// without the signing key. This is tamper detection with a shared secret,
// not a public-key trust chain.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Checksum returns the SHA-256 digest of data as a hex string.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether data hashes to want. The comparison is
// constant time; a malformed want never matches.
func VerifyChecksum(data []byte, want string) bool {
	wantRaw, err := hex.DecodeString(want)
	if err != nil || len(wantRaw) != sha256.Size {
		return false
	}
	sum := sha256.Sum256(data)
	return subtle.ConstantTimeCompare(sum[:], wantRaw) == 1
}

// Sign returns the hex HMAC-SHA256 of data under key.
func Sign(data, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is a valid signature of data under key.
func Verify(data []byte, sig string, key []byte) bool {
	sigRaw, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), sigRaw)
}
