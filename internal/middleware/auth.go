package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

var errNoCredentials = errors.New("aucun identifiant fourni")

// resolveUser lit l'en-tête Authorization : "Token <clé>" ou "Bearer <jwt>"
func resolveUser(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", errNoCredentials
	}

	scheme, value, found := strings.Cut(header, " ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return "", auth.ErrInvalidToken
	}

	switch strings.ToLower(scheme) {
	case "token":
		return auth.UserIDForToken(c.Request.Context(), value)
	case "bearer":
		return auth.ParseAccessToken(value)
	default:
		return "", auth.ErrInvalidToken
	}
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUser(c)
		if err != nil {
			rejectCredentials(c, err)
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func rejectCredentials(c *gin.Context, err error) {
	route := c.FullPath()

	switch {
	case errors.Is(err, errNoCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token requis"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
		logs.LogJSON("WARN", "Invalid credentials", map[string]interface{}{
			"route": route,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erreur d'authentification"})
		logs.LogJSON("ERROR", "Authentication lookup error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
	}
}
