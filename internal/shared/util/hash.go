package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Fingerprint returns the SHA-256 hex digest of content. The digest is the
// dedup key for uploaded files: same bytes, same fingerprint.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FingerprintReader computes the fingerprint of a stream without buffering
// more than the hash state.
func FingerprintReader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// OwnerKey returns a filesystem-safe identifier for an owner identity.
func OwnerKey(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])
}
