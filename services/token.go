package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AccessClaims are the claims carried by an access token. The user id is
// read from user_id, falling back to the subject.
type AccessClaims struct {
	UserID string `json:"user_id,omitempty"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) User() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// GenerateAccessToken signs an HS256 access token for userID valid for ttl.
func GenerateAccessToken(secret, issuer, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies the signature, issuer and expiry of tokenString.
// Refresh tokens and tokens without a user are rejected.
func ParseAccessToken(tokenString, secret, issuer string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims.Type == "refresh" || claims.User() == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
