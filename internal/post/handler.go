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

// postInput sert à la création (tous les champs requis) comme aux mises à jour
// PUT (complète) et PATCH (partielle)
type postInput struct {
	Title     *string `json:"title" binding:"omitempty,max=200"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

func (in postInput) validate(full bool) utils.FieldErrors {
	fields := utils.FieldErrors{}
	if full || in.Title != nil {
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			fields["title"] = "Ce champ est obligatoire."
		}
	}
	if full || in.Content != nil {
		if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
			fields["content"] = "Ce champ est obligatoire."
		}
	}
	return fields
}

func (in postInput) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if in.Title != nil {
		changes["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		changes["content"] = *in.Content
	}
	if in.Published != nil {
		changes["published"] = *in.Published
	}
	return changes
}

// bindPost lit et valide le corps, répond 400 sinon
func bindPost(c *gin.Context, full bool) (postInput, bool) {
	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.BindError(err))
		return input, false
	}
	if fields := input.validate(full); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, utils.ValidationError(fields))
		return input, false
	}
	return input, true
}

// loadPost résout :id pour l'appelant, répond 404/500 si besoin
func loadPost(c *gin.Context, route, userID string) (*Post, bool) {
	postID := c.Param("id")

	p, err := FindVisiblePost(c.Request.Context(), postID, userID)
	if err == nil {
		return p, true
	}
	if errors.Is(err, ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		logs.LogJSON("WARN", "Post not found", map[string]interface{}{
			"route":  route,
			"userID": userID,
			"postID": postID,
		})
		return nil, false
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du post"})
	logs.LogJSON("ERROR", "Error retrieving post", map[string]interface{}{
		"error":  err.Error(),
		"route":  route,
		"userID": userID,
		"postID": postID,
	})
	return nil, false
}

// allowed applique permission.Check et répond 401/403 en cas de refus
func allowed(c *gin.Context, route, userID, ownerID string, action permission.Action) bool {
	err := permission.Check(userID, ownerID, action)
	if err == nil {
		return true
	}

	message := "Action réservée à l'auteur"
	if errors.Is(err, permission.ErrUnauthenticated) {
		message = "Utilisateur non authentifié"
	}
	c.JSON(permission.Status(err), gin.H{"error": message})
	logs.LogJSON("WARN", "Permission denied", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"action": action.String(),
	})
	return false
}

func serverError(c *gin.Context, route, userID, message string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	logs.LogJSON("ERROR", "Content store error", map[string]interface{}{
		"error":   err.Error(),
		"route":   route,
		"userID":  userID,
		"details": message,
	})
}

// ListPosts GET /api/posts
func ListPosts(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	filter := ListFilter{
		CallerID: userID,
		Search:   strings.TrimSpace(c.Query("search")),
		Author:   c.Query("author"),
		Ordering: c.Query("ordering"),
	}
	posts, total, err := QueryPosts(c.Request.Context(), filter, params)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération des posts", err)
		return
	}

	page, err := pagination.NewPage(c, params, total, PostResponses(posts))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreatePost POST /api/posts
func CreatePost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if !allowed(c, route, userID, "", permission.Create) {
		return
	}
	input, ok := bindPost(c, true)
	if !ok {
		return
	}

	published := true
	if input.Published != nil {
		published = *input.Published
	}
	newPost := Post{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		AuthorID:  userID,
		Title:     strings.TrimSpace(*input.Title),
		Content:   *input.Content,
		Published: published,
	}

	ctx := c.Request.Context()
	if err := InsertPost(ctx, &newPost); err != nil {
		serverError(c, route, userID, "Erreur lors de la création du post", err)
		return
	}

	created, err := FindVisiblePost(ctx, newPost.ID, userID)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération du post", err)
		return
	}

	c.JSON(http.StatusCreated, created.Response())
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"postID": newPost.ID,
	})
}

// GetPost GET /api/posts/:id
func GetPost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	p, ok := loadPost(c, route, userID)
	if !ok {
		return
	}

	comments, err := CommentsOf(c.Request.Context(), p.ID)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération des commentaires", err)
		return
	}

	c.JSON(http.StatusOK, PostDetail{
		PostResponse: p.Response(),
		Comments:     CommentResponses(comments),
	})
}

// UpdatePost PUT|PATCH /api/posts/:id
func UpdatePost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	p, ok := loadPost(c, route, userID)
	if !ok {
		return
	}
	if !allowed(c, route, userID, p.AuthorID, permission.Update) {
		return
	}

	input, ok := bindPost(c, c.Request.Method == http.MethodPut)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := ApplyPostChanges(ctx, p, input.changes()); err != nil {
		serverError(c, route, userID, "Erreur lors de la mise à jour du post", err)
		return
	}

	updated, err := FindVisiblePost(ctx, p.ID, userID)
	if err != nil {
		serverError(c, route, userID, "Erreur lors de la récupération du post", err)
		return
	}

	c.JSON(http.StatusOK, updated.Response())
	logs.LogJSON("INFO", "Post updated", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"postID": p.ID,
	})
}

// DeletePost DELETE /api/posts/:id
func DeletePost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	p, ok := loadPost(c, route, userID)
	if !ok {
		return
	}
	if !allowed(c, route, userID, p.AuthorID, permission.Delete) {
		return
	}

	if err := RemovePost(c.Request.Context(), p.ID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
			return
		}
		serverError(c, route, userID, "Erreur lors de la suppression du post", err)
		return
	}

	c.Status(http.StatusNoContent)
	logs.LogJSON("INFO", "Post deleted", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"postID": p.ID,
	})
}
