package post

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// GetPostsByUsername GET /api/accounts/users/:username/posts
func GetPostsByUsername(c *gin.Context) {
	route := c.FullPath()
	username := c.Param("username")
	requesterID := c.GetString("user_id")

	if _, err := user.FindByUsername(c.Request.Context(), username); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		} else {
			serverError(c, route, requesterID, "Erreur de récupération de l'utilisateur", err)
		}
		return
	}

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	posts, total, err := QueryPosts(c.Request.Context(), ListFilter{
		CallerID: requesterID,
		Author:   username,
		Ordering: c.Query("ordering"),
	}, params)
	if err != nil {
		serverError(c, route, requesterID, "Erreur de récupération des posts", err)
		return
	}

	page, err := pagination.NewPage(c, params, total, PostResponses(posts))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}
