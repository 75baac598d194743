package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker verifies the shared admin password. Only the bcrypt hash
// is kept in memory after construction.
type PasswordChecker struct {
	hash []byte
}

// NewPasswordChecker hashes the configured admin password
func NewPasswordChecker(password string) (*PasswordChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &PasswordChecker{hash: hash}, nil
}

// Check returns ErrWrongPassword unless the candidate matches
func (c *PasswordChecker) Check(candidate string) error {
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(candidate)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
