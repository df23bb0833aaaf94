package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"secondbrain/logger"
	"secondbrain/services"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   string
	IssuedAt time.Time
}

// RevocationList reports whether a token was revoked before it expired.
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// CurrentIdentity returns the identity the auth middleware stored on c.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.UserID != ""
}

// AuthMiddleware requires a valid bearer access token. revoked may be nil,
// in which case tokens are not checked for revocation.
func AuthMiddleware(secret, issuer string, revoked RevocationList) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "missing")
			utils.Unauthorized(c, "Missing or invalid token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := services.ParseAccessToken(tokenString, secret, issuer)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				utils.TrackAuthAttempt("failure", "expired")
				utils.Unauthorized(c, "Token has expired")
				return
			}
			utils.TrackAuthAttempt("failure", "invalid")
			utils.Unauthorized(c, "Invalid token")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, tokenString)
			if err != nil {
				// An unreachable revocation list does not lock every user out.
				logger.Warn(ctx, "token revocation check failed", logger.Err(err))
			}
			if isRevoked {
				utils.TrackAuthAttempt("failure", "revoked")
				utils.Unauthorized(c, "Token has been invalidated")
				return
			}
		}

		id := Identity{UserID: claims.User()}
		if claims.IssuedAt != nil {
			id.IssuedAt = claims.IssuedAt.Time
		}
		SetIdentity(c, id)
		utils.TrackAuthAttempt("success", "bearer")

		c.Next()
	}
}
