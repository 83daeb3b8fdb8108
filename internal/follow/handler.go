package follow

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// target résout :username et répond 404/500 si besoin
func target(c *gin.Context, route, currentUserID string) (*user.User, bool) {
	username := c.Param("username")

	u, err := user.FindByUsername(c.Request.Context(), username)
	if err == nil {
		return u, true
	}
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
		logs.LogJSON("WARN", "User not found", map[string]interface{}{
			"route":    route,
			"username": username,
			"userID":   currentUserID,
		})
		return nil, false
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de récupération de l'utilisateur"})
	logs.LogJSON("ERROR", "Error retrieving user", map[string]interface{}{
		"error":    err.Error(),
		"route":    route,
		"username": username,
		"userID":   currentUserID,
	})
	return nil, false
}

// ToggleFollow POST /api/accounts/follow/:username
func ToggleFollow(c *gin.Context) {
	route := c.FullPath()
	followerID := c.GetString("user_id")

	followed, ok := target(c, route, followerID)
	if !ok {
		return
	}

	following, err := Toggle(c.Request.Context(), followerID, followed.ID)
	if errors.Is(err, ErrSelfFollow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de se suivre soi-même"})
		logs.LogJSON("WARN", "Impossible to follow yourself", map[string]interface{}{
			"route":  route,
			"userID": followerID,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du suivi"})
		logs.LogJSON("ERROR", "Error toggling follow", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": followerID,
			"extra":  fmt.Sprintf("followingID : %s", followed.ID),
		})
		return
	}

	message := fmt.Sprintf("Vous ne suivez plus %s", followed.Username)
	if following {
		message = fmt.Sprintf("Vous suivez maintenant %s", followed.Username)
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "following": following})
	logs.LogJSON("INFO", "Follow toggled", map[string]interface{}{
		"route":     route,
		"userID":    followerID,
		"following": following,
		"extra":     fmt.Sprintf("followingID : %s", followed.ID),
	})
}

// UnfollowUser POST /api/accounts/unfollow/:username
func UnfollowUser(c *gin.Context) {
	route := c.FullPath()
	followerID := c.GetString("user_id")

	followed, ok := target(c, route, followerID)
	if !ok {
		return
	}

	err := Unfollow(c.Request.Context(), followerID, followed.ID)
	if errors.Is(err, ErrNotFollowing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Vous ne suivez pas %s", followed.Username)})
		logs.LogJSON("WARN", "Unfollow of a user not followed", map[string]interface{}{
			"route":  route,
			"userID": followerID,
			"extra":  fmt.Sprintf("followingID : %s", followed.ID),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur unfollow"})
		logs.LogJSON("ERROR", "Error unfollow", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": followerID,
			"extra":  fmt.Sprintf("followingID : %s", followed.ID),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Vous ne suivez plus %s", followed.Username)})
	logs.LogJSON("INFO", "User unfollow", map[string]interface{}{
		"route":  route,
		"userID": followerID,
		"extra":  fmt.Sprintf("followingID : %s", followed.ID),
	})
}

type lister func(ctx context.Context, userID string, p pagination.Params) ([]user.User, int64, error)

// GetFollowing GET /api/accounts/following[/:username]
func GetFollowing(c *gin.Context) {
	listFollows(c, ListFollowing)
}

// GetFollowers GET /api/accounts/followers[/:username]
func GetFollowers(c *gin.Context) {
	listFollows(c, ListFollowers)
}

// listFollows liste pour :username, ou pour l'appelant sur la route sans paramètre
func listFollows(c *gin.Context, list lister) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")

	subjectID := currentUserID
	if c.Param("username") != "" {
		u, ok := target(c, route, currentUserID)
		if !ok {
			return
		}
		subjectID = u.ID
	}

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	users, total, err := list(c.Request.Context(), subjectID, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération des utilisateurs"})
		logs.LogJSON("ERROR", "Error listing follows", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": currentUserID,
		})
		return
	}

	summaries := make([]user.Summary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	page, err := pagination.NewPage(c, params, total, summaries)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}
