package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/auth"
	"github.com/suPer8Hu/mindguide/internal/common"
)

const UserIDKey = "uid"

// OptionalAuth pins the user id to the bearer token subject when a token is
// sent. No header passes through; a bad token is a 401.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			common.AbortFail(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		uid, err := auth.ParseJWT(strings.TrimSpace(parts[1]), jwtSecret)
		if err != nil {
			common.AbortFail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

// UserID returns the token-pinned user id, if any.
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
