package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	"github.com/ecomstack/storefront-api/pkg/helpers"
	"github.com/ecomstack/storefront-api/pkg/response"
)

const CtxUserIDKey = "userID"

// RequireSignIn reads the Authorization header, validates the token's
// signature and expiry, and injects the user ID into the Gin context.
// No session or denylist lookup: the token alone establishes identity.
func RequireSignIn(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.TokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireAdmin re-fetches the user record to check the stored role, so a
// demotion is picked up on the next request even though the token itself
// stays valid until expiry. Must run after RequireSignIn.
func RequireAdmin(users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil || u == nil || !u.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}
