package service

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid admin password")

// AuthService checks the staff password. Only its bcrypt hash is kept.
type AuthService struct {
	hash []byte
}

func NewAuthService(password string) (*AuthService, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &AuthService{hash: hash}, nil
}

func (s *AuthService) Authenticate(password string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// GenerateToken returns 32 random hex characters.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}
