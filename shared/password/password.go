package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. These match the persisted admin.json records
// produced by earlier deployments, so changing them invalidates stored hashes.
const (
	SaltBytes  = 16
	Iterations = 100000
	KeyLength  = 64
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
)

// NewSalt generates a fresh random salt, hex encoded.
func NewSalt() (string, error) {
	buf := make([]byte, SaltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Hash derives a hex-encoded PBKDF2-SHA512 hash of the password with the given salt.
// The salt is consumed as its hex string bytes, matching the stored record format.
func Hash(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	derived := pbkdf2.Key([]byte(password), []byte(salt), Iterations, KeyLength, sha512.New)

	return hex.EncodeToString(derived), nil
}

// Verify checks if the provided password derives to the stored hash.
func Verify(password, salt, hash string) error {
	if password == "" || salt == "" || hash == "" {
		return ErrInvalidPassword
	}

	derived, err := Hash(password, salt)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) != 1 {
		return ErrInvalidPassword
	}

	return nil
}
