package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware laisse passer les anonymes mais refuse un en-tête
// Authorization présent et invalide.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUser(c)
		if errors.Is(err, errNoCredentials) {
			c.Next()
			return
		}
		if err != nil {
			rejectCredentials(c, err)
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
