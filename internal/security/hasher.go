// Package security derives and verifies password digests.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltLength is the number of random bytes in a salt. Salts are stored
	// hex-encoded, so the encoded form is twice this length.
	SaltLength = 16

	keyLength = 32
)

// Params are the argon2id cost parameters.
type Params struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultParams follows the OWASP recommendation for argon2id.
var DefaultParams = Params{Time: 1, MemKiB: 64 * 1024, Par: 4}

// Hasher derives one-way password digests with argon2id. The zero value is
// not usable; construct it with NewHasher.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher with the given cost parameters. Zero fields
// fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemKiB == 0 {
		p.MemKiB = DefaultParams.MemKiB
	}
	if p.Par == 0 {
		p.Par = DefaultParams.Par
	}
	return &Hasher{params: p}
}

// GenerateSalt returns a fresh hex-encoded random salt.
func (h *Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash derives the digest of (password, salt). The result is deterministic
// for fixed inputs and parameters, and encodes the parameters so digests
// remain verifiable after a cost change:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<base64 key>
func (h *Hasher) Hash(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), h.params.Time, h.params.MemKiB, h.params.Par, keyLength)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version,
		h.params.MemKiB,
		h.params.Time,
		h.params.Par,
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// Verify recomputes the digest of (password, salt) with the parameters
// recorded in digest and compares in constant time. A digest that does not
// parse verifies as false.
func (h *Hasher) Verify(password, salt, digest string) bool {
	params, expected, ok := parseDigest(digest)
	if !ok {
		return false
	}

	key := argon2.IDKey([]byte(password), []byte(salt), params.Time, params.MemKiB, params.Par, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func parseDigest(digest string) (Params, []byte, bool) {
	var (
		version    int
		mem, iters uint32
		par        uint32
		encodedKey string
	)

	n, err := fmt.Sscanf(digest, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &mem, &iters, &par, &encodedKey)
	if err != nil || n != 5 {
		return Params{}, nil, false
	}
	if version != argon2.Version || par == 0 || par > 255 {
		return Params{}, nil, false
	}

	key, err := base64.RawStdEncoding.DecodeString(encodedKey)
	if err != nil || len(key) == 0 {
		return Params{}, nil, false
	}

	return Params{Time: iters, MemKiB: mem, Par: uint8(par)}, key, true
}
