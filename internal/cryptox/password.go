// Package cryptox implements the password hashing scheme used for stored
// user credentials.
//
// A hashed credential is stored as three colon-separated fields:
//
//	<iterations>:<base64 salt>:<base64 derived key>
//
// The key is PBKDF2-HMAC-SHA256 over the password with a random 16-byte
// salt. Records created before hashing was introduced hold the plaintext
// password instead; MatchCredential still accepts those by plain
// comparison. That fallback is a known weakness kept only so that old
// accounts can log in.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	KeySize    = 32
	Iterations = 100000

	delimiter = ":"
)

// CredentialForm tells how a stored credential string must be compared.
type CredentialForm int

const (
	CredentialHashed CredentialForm = iota
	CredentialLegacyPlaintext
)

func (f CredentialForm) String() string {
	switch f {
	case CredentialHashed:
		return "hashed"
	case CredentialLegacyPlaintext:
		return "legacy-plaintext"
	default:
		return "unknown"
	}
}

// randRead is a seam for tests.
var randRead = rand.Read

// HashPassword derives a new credential encoding for password using a fresh
// random salt. Two calls with the same password yield different encodings.
// The only error is a failure of the system random source.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("salt generation failed: %w", err)
	}

	key := deriveKey(password, salt, Iterations, KeySize)

	return strings.Join([]string{
		strconv.Itoa(Iterations),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, delimiter), nil
}

// VerifyPassword reports whether password matches the encoded credential.
// Malformed encodings yield false.
func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, delimiter)
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(key) == 0 {
		return false
	}

	candidate := deriveKey(password, salt, iterations, len(key))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// ClassifyCredential reports whether stored has the three-field hashed shape.
// Anything else is treated as a legacy plaintext password.
func ClassifyCredential(stored string) CredentialForm {
	if len(strings.Split(stored, delimiter)) == 3 {
		return CredentialHashed
	}
	return CredentialLegacyPlaintext
}

// MatchCredential checks password against a stored credential of either form.
func MatchCredential(password, stored string) bool {
	switch ClassifyCredential(stored) {
	case CredentialHashed:
		return VerifyPassword(password, stored)
	default:
		return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	}
}

func deriveKey(password string, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}
