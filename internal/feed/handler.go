package feed

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
)

type source func(ctx context.Context, userID string, p pagination.Params) ([]post.Post, int64, error)

// GetFeed GET /api/posts/feed
func GetFeed(c *gin.Context) {
	respond(c, Feed)
}

// GetDiscover GET /api/posts/discover
func GetDiscover(c *gin.Context) {
	respond(c, Discover)
}

func respond(c *gin.Context, load source) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	posts, total, err := load(c.Request.Context(), userID, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du fil"})
		logs.LogJSON("ERROR", "Error building feed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	page, err := pagination.NewPage(c, params, total, post.PostResponses(posts))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
	logs.LogJSON("DEBUG", "Feed served", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"count":  len(posts),
	})
}
