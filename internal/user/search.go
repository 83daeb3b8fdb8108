package user

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
)

// SearchUsers GET /api/accounts/users?search=
func SearchUsers(c *gin.Context) {
	route := c.FullPath()
	query := strings.TrimSpace(c.Query("search"))

	if utf8.RuneCountInString(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La recherche doit contenir au moins 2 caractères"})
		logs.LogJSON("WARN", "The search must contain at least 2 characters", map[string]interface{}{
			"route": route,
			"extra": fmt.Sprintf("The search is : %s", query),
		})
		return
	}

	params, err := pagination.FromRequest(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}

	users, total, err := Search(c.Request.Context(), query, params.Offset(), params.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la recherche"})
		logs.LogJSON("ERROR", "Search error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
			"extra": fmt.Sprintf("The search is : %s", query),
		})
		return
	}

	results := make([]Summary, 0, len(users))
	for i := range users {
		results = append(results, users[i].Summary())
	}

	page, err := pagination.NewPage(c, params, total, results)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	c.JSON(http.StatusOK, page)
}
