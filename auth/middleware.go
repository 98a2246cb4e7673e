package auth

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards the admin surface with the static shared
// secret from ADMIN_KEY. Missing or wrong tokens get a 401; there are
// no users, roles or sessions.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized: No token provided"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		key := os.Getenv("ADMIN_KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized: Invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
