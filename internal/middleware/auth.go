package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flavorcraft/backend/internal/types"
)

// TokenAuthenticator verifies a bearer token and resolves it to a
// persisted user. Implementations must not distinguish between a bad
// token and a missing user in their errors.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// authDenied is the single message returned for every authentication
// failure; which check failed is never leaked to the caller.
const authDenied = "authorization denied"

// AuthMiddleware creates a middleware that validates bearer tokens and
// stores the authenticated user id in the request context.
func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": authDenied})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": authDenied})
			c.Abort()
			return
		}

		claims, err := auth.AuthenticateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": authDenied})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a bearer token when one is present but
// lets anonymous requests through. Routes that only vary their response
// by viewer use this instead of AuthMiddleware.
func OptionalAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		if claims, err := auth.AuthenticateToken(c.Request.Context(), parts[1]); err == nil {
			c.Set("user_id", claims.UserID)
		}
		c.Next()
	}
}
