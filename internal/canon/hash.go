package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// leaves room to migrate the algorithm without colliding with old ids.
const (
	DomainAction = "shopfront/action/v1"
	DomainState  = "shopfront/state/v1"
)

// Digest computes SHA-256 over domain + 0x00 + canonical(v) and returns
// the hex string. The null separator prevents a crafted domain/data
// boundary from colliding across domains.
func Digest(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustDigest is Digest for inputs known to be valid. Panics on error; use
// in tests only.
func MustDigest(domain string, v any) string {
	d, err := Digest(domain, v)
	if err != nil {
		panic(err)
	}
	return d
}
