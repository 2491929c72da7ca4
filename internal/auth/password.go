package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with the stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword returns the list of policy violations for a candidate
// password. An empty list means the password is acceptable.
func ValidatePassword(password string) []string {
	var reasons []string
	if len(password) < minPasswordLength {
		reasons = append(reasons, "Password must be at least 6 characters long")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		reasons = append(reasons, "Password must contain at least one digit")
	}
	if !strings.ContainsFunc(password, unicode.IsLetter) {
		reasons = append(reasons, "Password must contain at least one letter")
	}
	return reasons
}
