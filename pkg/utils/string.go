package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TempPasswordBytes is the entropy of issued temporary passwords.
const TempPasswordBytes = 24

// GenerateTempPassword returns a hex-encoded random credential for
// newly approved accounts. Never derived from anything predictable.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, TempPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temp password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateRandomString returns a hex string of n random bytes, used for
// storage object keys.
func GenerateRandomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
