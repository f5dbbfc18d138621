package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingomate/backend/pkg/helpers"
	"github.com/lingomate/backend/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth reads the jwt session cookie, validates the signature and expiry, and
// injects the user ID into the Gin context. The token is stateless; no
// server-side session lookup happens here.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, "Unauthorized - No token provided")
			c.Abort()
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Unauthorized - Invalid token")
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
