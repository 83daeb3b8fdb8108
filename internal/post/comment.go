package post

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/permission"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type commentInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func bindComment(c *gin.Context) (string, bool) {
	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.BindError(err))
		return "", false
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"content": "Ce champ est obligatoire."}))
		return "", false
	}
	return content, true
}

func loadComment(c *gin.Context, route, userID string) (*Comment, bool) {
	commentID := c.Param("id")

	cm, err := FindVisibleComment(c.Request.Context(), commentID, userID)
	if err == nil {
		return cm, true
	}
	if errors.Is(err, ErrCommentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commentaire non trouvé"})
		logs.LogJSON("WARN", "Comment not found", map[string]interface{}{
			"route":     route,
			"userID":    userID,
			"commentID": commentID,
		})
		return nil, false
	}
	serverError(c, route, userID, "Erreur lors de la récupération du commentaire", err)
	return nil, false
}

func respondComments(c *gin.Context, route, userID string, filter CommentFilter) {
	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	comments, total, err := QueryComments(c.Request.Context(), filter, params)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération des commentaires", err)
		return
	}

	page, err := pagination.NewPage(c, params, total, CommentResponses(comments))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListPostComments GET /api/posts/:id/comments
func ListPostComments(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	p, ok := loadPost(c, route, userID)
	if !ok {
		return
	}
	respondComments(c, route, userID, CommentFilter{
		CallerID: userID,
		PostID:   p.ID,
		Ordering: c.Query("ordering"),
	})
}

// ListComments GET /api/comments
func ListComments(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	respondComments(c, route, userID, CommentFilter{
		CallerID: userID,
		PostID:   c.Query("post"),
		Author:   c.Query("author"),
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	})
}

// CreateComment POST /api/posts/:id/comments
func CreateComment(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if !allowed(c, route, userID, "", permission.Create) {
		return
	}
	p, ok := loadPost(c, route, userID)
	if !ok {
		return
	}
	content, ok := bindComment(c)
	if !ok {
		return
	}

	now := time.Now()
	newComment := Comment{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		PostID:    p.ID,
		AuthorID:  userID,
		Content:   content,
	}

	ctx := c.Request.Context()
	if err := InsertComment(ctx, &newComment); err != nil {
		serverError(c, route, userID, "Erreur lors de la création du commentaire", err)
		return
	}

	created, err := FindVisibleComment(ctx, newComment.ID, userID)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération du commentaire", err)
		return
	}

	c.JSON(http.StatusCreated, created.Response())
	logs.LogJSON("INFO", "Comment created", map[string]interface{}{
		"route":     route,
		"userID":    userID,
		"postID":    p.ID,
		"commentID": newComment.ID,
	})
}

// GetComment GET /api/comments/:id
func GetComment(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	cm, ok := loadComment(c, route, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cm.Response())
}

// UpdateComment PUT|PATCH /api/comments/:id
func UpdateComment(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	cm, ok := loadComment(c, route, userID)
	if !ok {
		return
	}
	if !allowed(c, route, userID, cm.AuthorID, permission.Update) {
		return
	}
	content, ok := bindComment(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := ApplyCommentContent(ctx, cm, content); err != nil {
		serverError(c, route, userID, "Erreur lors de la mise à jour du commentaire", err)
		return
	}

	updated, err := FindVisibleComment(ctx, cm.ID, userID)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération du commentaire", err)
		return
	}

	c.JSON(http.StatusOK, updated.Response())
	logs.LogJSON("INFO", "Comment updated", map[string]interface{}{
		"route":     route,
		"userID":    userID,
		"commentID": cm.ID,
	})
}

// DeleteComment DELETE /api/comments/:id
// Seul l'auteur du commentaire peut le supprimer, l'auteur du post non.
func DeleteComment(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	cm, ok := loadComment(c, route, userID)
	if !ok {
		return
	}
	if !allowed(c, route, userID, cm.AuthorID, permission.Delete) {
		return
	}

	if err := RemoveComment(c.Request.Context(), cm.ID); err != nil {
		serverError(c, route, userID, "Erreur lors de la suppression du commentaire", err)
		return
	}

	c.Status(http.StatusNoContent)
	logs.LogJSON("INFO", "Comment deleted", map[string]interface{}{
		"route":     route,
		"userID":    userID,
		"commentID": cm.ID,
	})
}
