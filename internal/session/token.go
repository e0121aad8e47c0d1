package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "studylite"

// Signer issues and verifies signed session cookies. The token only carries
// the session ID; it identifies a browser session, not a user.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer using HS256 with secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.New().String()
}

// Issue signs a token for sid.
func (s *Signer) Issue(sid string) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:     sid,
		Issuer: tokenIssuer,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a token and returns its session ID.
func (s *Signer) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", errors.New("session token carries an invalid id")
	}
	return claims.ID, nil
}
