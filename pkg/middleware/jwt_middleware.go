package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mem "angido/pkg/memcache"
	"angido/pkg/utils"
)

// Keys set on the gin context by JWTAuthMiddleware.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

func JWTAuthMiddleware(tokens *utils.TokenManager, revoked mem.RevocationStore) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		isLoggedOut, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			zap.L().Error("check token revocation", zap.Error(err))
			utils.RespondError(c, http.StatusServiceUnavailable, "Unable to verify token")
			c.Abort()
			return
		}
		if isLoggedOut {
			utils.RespondError(c, http.StatusUnauthorized, "Token is logged out")
			c.Abort()
			return
		}

		// Pass user information to the next handler
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)

		if role != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
