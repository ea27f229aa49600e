package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Middleware resolves the caller from the session cookie or a Bearer
// header. Requests without a valid session continue anonymously.
func Middleware(sessions *Sessions, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if cookie, err := c.Cookie(cookieName); err == nil {
			tokenStr = cookie
		}
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}

		if tokenStr != "" {
			if claims, err := sessions.Parse(tokenStr); err == nil {
				c.Set(userIDKey, claims.Subject)
			}
		}
		c.Next()
	}
}

// RequireUser aborts with 401 unless Middleware identified the caller
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// UserID returns the caller's id
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
