package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ZamoritaCR/neurostream/internal/userctx"
)

// SessionRequired resolves the authenticated user from the gateway
// header into the request context. Handlers never touch session state
// directly.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(strings.TrimSpace(c.GetHeader("X-User-Id")), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
			return
		}

		ctx := userctx.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func userFromRequest(c *gin.Context) (int64, bool) {
	return userctx.UserIDFromContext(c.Request.Context())
}
