package book

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/permission"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type bookInput struct {
	Title           *string `json:"title" binding:"omitempty,max=200"`
	Author          *string `json:"author" binding:"omitempty,max=100"`
	PublicationYear *int    `json:"publication_year" binding:"omitempty,notfutureyear"`
	Pages           *int    `json:"pages" binding:"omitempty,gt=0"`
	Description     *string `json:"description"`
}

// validate vérifie la présence des champs obligatoires ; full pour POST et PUT
func (in bookInput) validate(full bool) utils.FieldErrors {
	fields := utils.FieldErrors{}
	required := "Ce champ est obligatoire."
	if (full || in.Title != nil) && (in.Title == nil || strings.TrimSpace(*in.Title) == "") {
		fields["title"] = required
	}
	if (full || in.Author != nil) && (in.Author == nil || strings.TrimSpace(*in.Author) == "") {
		fields["author"] = required
	}
	if full && in.PublicationYear == nil {
		fields["publication_year"] = required
	}
	if full && in.Pages == nil {
		fields["pages"] = required
	}
	return fields
}

func (in bookInput) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if in.Title != nil {
		changes["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		changes["author"] = strings.TrimSpace(*in.Author)
	}
	if in.PublicationYear != nil {
		changes["publication_year"] = *in.PublicationYear
	}
	if in.Pages != nil {
		changes["pages"] = *in.Pages
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	return changes
}

func bind(c *gin.Context, full bool) (bookInput, bool) {
	var input bookInput
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

// authenticated : le catalogue est en lecture libre, toute écriture exige un compte
func authenticated(c *gin.Context, route, userID string) bool {
	if err := permission.Check(userID, "", permission.Create); err != nil {
		c.JSON(permission.Status(err), gin.H{"error": "Utilisateur non authentifié"})
		logs.LogJSON("WARN", "Anonymous write on catalog", map[string]interface{}{
			"route": route,
		})
		return false
	}
	return true
}

func load(c *gin.Context, route, userID string) (*Book, bool) {
	bookID := c.Param("id")

	b, err := Find(c.Request.Context(), bookID)
	if err == nil {
		return b, true
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Livre non trouvé"})
		return nil, false
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du livre"})
	logs.LogJSON("ERROR", "Error retrieving book", map[string]interface{}{
		"error":  err.Error(),
		"route":  route,
		"userID": userID,
		"bookID": bookID,
	})
	return nil, false
}

// ListBooks GET /api/books
func ListBooks(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	filter := Filter{
		Title:    c.Query("title"),
		Author:   c.Query("author"),
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	}
	if raw := c.Query("publication_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"publication_year": "Nombre entier attendu."}))
			return
		}
		filter.PublicationYear = &year
	}

	books, total, err := Query(c.Request.Context(), filter, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des livres"})
		logs.LogJSON("ERROR", "Error listing books", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	page, err := pagination.NewPage(c, params, total, books)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateBook POST /api/books
func CreateBook(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if !authenticated(c, route, userID) {
		return
	}
	input, ok := bind(c, true)
	if !ok {
		return
	}

	newBook := Book{
		ID:              uuid.New().String(),
		CreatedAt:       time.Now(),
		Title:           strings.TrimSpace(*input.Title),
		Author:          strings.TrimSpace(*input.Author),
		PublicationYear: *input.PublicationYear,
		Pages:           *input.Pages,
	}
	if input.Description != nil {
		newBook.Description = *input.Description
	}

	if err := Insert(c.Request.Context(), &newBook); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du livre"})
		logs.LogJSON("ERROR", "Error creating book", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, newBook)
	logs.LogJSON("INFO", "Book created", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"bookID": newBook.ID,
	})
}

// GetBook GET /api/books/:id
func GetBook(c *gin.Context) {
	b, ok := load(c, c.FullPath(), c.GetString("user_id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBook PUT|PATCH /api/books/:id
func UpdateBook(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if !authenticated(c, route, userID) {
		return
	}
	b, ok := load(c, route, userID)
	if !ok {
		return
	}
	input, ok := bind(c, c.Request.Method == http.MethodPut)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := ApplyChanges(ctx, b, input.changes()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du livre"})
		logs.LogJSON("ERROR", "Error updating book", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
			"bookID": b.ID,
		})
		return
	}

	updated, ok := load(c, route, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
	logs.LogJSON("INFO", "Book updated", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"bookID": b.ID,
	})
}

// DeleteBook DELETE /api/books/:id
func DeleteBook(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if !authenticated(c, route, userID) {
		return
	}
	b, ok := load(c, route, userID)
	if !ok {
		return
	}

	if err := Remove(c.Request.Context(), b.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du livre"})
		logs.LogJSON("ERROR", "Error deleting book", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
			"bookID": b.ID,
		})
		return
	}

	c.Status(http.StatusNoContent)
	logs.LogJSON("INFO", "Book deleted", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"bookID": b.ID,
	})
}
