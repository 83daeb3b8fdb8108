package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

// GetUserByUsername GET /api/accounts/users/:username
func GetUserByUsername(c *gin.Context) {
	route := c.FullPath()
	username := c.Param("username")
	currentUserID := c.GetString("user_id")

	u, err := FindByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
			logs.LogJSON("WARN", "User not found", map[string]interface{}{
				"route":    route,
				"username": username,
				"userID":   currentUserID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de récupération de l'utilisateur"})
		logs.LogJSON("ERROR", "Error retrieving user", map[string]interface{}{
			"error":    err.Error(),
			"route":    route,
			"username": username,
			"userID":   currentUserID,
		})
		return
	}

	profile, err := BuildProfile(u, u.ID == currentUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération des compteurs"})
		logs.LogJSON("ERROR", "Error counting follows", map[string]interface{}{
			"error":    err.Error(),
			"route":    route,
			"username": username,
			"userID":   currentUserID,
		})
		return
	}

	if currentUserID != "" && currentUserID != u.ID {
		following, err := utils.IsFollowing(currentUserID, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la vérification du suivi"})
			logs.LogJSON("ERROR", "Error during follow-up verification", map[string]interface{}{
				"error":    err.Error(),
				"route":    route,
				"username": username,
				"userID":   currentUserID,
			})
			return
		}
		profile.IsFollowing = &following
	}

	c.JSON(http.StatusOK, profile)
}
