package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "secondbrain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, testIssuer, "user-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, testSecret, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.User())
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenRejects(t *testing.T) {
	valid, err := GenerateAccessToken(testSecret, testIssuer, "user-1", time.Hour)
	require.NoError(t, err)

	expired, err := GenerateAccessToken(testSecret, testIssuer, "user-1", -time.Minute)
	require.NoError(t, err)

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: "user-1",
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: testIssuer},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		issuer  string
		wantErr error
	}{
		{"expired", expired, testSecret, testIssuer, ErrTokenExpired},
		{"wrong secret", valid, "other", testIssuer, ErrTokenInvalid},
		{"wrong issuer", valid, testSecret, "someone-else", ErrTokenInvalid},
		{"refresh token", refresh, testSecret, testIssuer, ErrTokenInvalid},
		{"no expiry", noExpiry, testSecret, testIssuer, ErrTokenInvalid},
		{"garbage", "not.a.jwt", testSecret, testIssuer, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.token, tt.secret, tt.issuer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
