package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/utils"
)

// AccountChecker reports whether the user behind a token may still sign in.
type AccountChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware validates the bearer token and stores the caller's identity.
func AuthMiddleware(accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithAppError(c, utils.Unauthenticated("Authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithAppError(c, utils.Unauthenticated("Invalid authorization header format"))
			return
		}

		authenticate(c, accounts, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

// WebSocketAuthMiddleware reads the token from the query string, since
// browsers cannot set headers on websocket upgrades.
func WebSocketAuthMiddleware(accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.AbortWithAppError(c, utils.Unauthenticated("Token missing"))
			return
		}
		authenticate(c, accounts, token)
	}
}

func authenticate(c *gin.Context, accounts AccountChecker, tokenString string) {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.AbortWithAppError(c, utils.Unauthenticated("Invalid or expired token"))
		return
	}
	if utils.IsTokenBlacklisted(claims.ID) {
		utils.AbortWithAppError(c, utils.Unauthenticated("Token has been revoked"))
		return
	}

	identity := auth.FromClaims(claims)
	if identity.UserID == 0 {
		utils.AbortWithAppError(c, utils.Unauthenticated("Invalid user ID in token"))
		return
	}

	// deactivated or deleted accounts lose access before their token expires
	active, err := accounts.IsActive(c.Request.Context(), identity.UserID)
	if err != nil {
		utils.AbortWithAppError(c, err)
		return
	}
	if !active {
		utils.AbortWithAppError(c, utils.Unauthenticated("Account is inactive"))
		return
	}

	auth.SetIdentity(c, identity)
	c.Next()
}
