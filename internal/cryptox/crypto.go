// Package cryptox hashes and verifies the PINs and admin passwords stored
// with user accounts.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	hashScheme = "argon2id"
	saltSize   = 16
)

var ErrMalformedHash = errors.New("malformed secret hash")

// DeriveKey stretches secret with argon2id using the fixed cost parameters
// every stored hash was produced with.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// HashSecret returns "argon2id$<salt hex>$<key hex>" for secret using a fresh
// random salt.
func HashSecret(secret string) string {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey([]byte(secret), salt)
	return strings.Join([]string{hashScheme, hex.EncodeToString(salt), hex.EncodeToString(key)}, "$")
}

// VerifySecret reports whether candidate matches a hash produced by
// HashSecret. The comparison runs in constant time.
func VerifySecret(encoded, candidate string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, ErrMalformedHash
	}

	got := DeriveKey([]byte(candidate), salt)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
