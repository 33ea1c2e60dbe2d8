package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier hashes passwords and checks them against stored hashes.
// Hashes are opaque to the rest of the service.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// BcryptVerifier is the production CredentialVerifier
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier uses bcrypt.DefaultCost when cost is out of range
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (b *BcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns false with a nil error for a wrong password. Only a
// malformed hash is an error.
func (b *BcryptVerifier) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}
