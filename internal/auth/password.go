// Package auth guards the admin endpoints of the HTTP API with bcrypt
// password hashes supplied through configuration.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// ErrBlankPassword is returned when a password to hash is empty after trimming.
var ErrBlankPassword = errors.New("password must not be blank")

// HashPassword derives a bcrypt hash suitable for storing in configuration.
func HashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", ErrBlankPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("generate bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
// Blank passwords and blank hashes never match.
func VerifyPassword(password, hash string) bool {
	password = strings.TrimSpace(password)
	hash = strings.TrimSpace(hash)
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeUsername makes username comparison case- and
// whitespace-insensitive.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
