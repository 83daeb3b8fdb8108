// Package pagination implémente la pagination par numéro de page utilisée par
// toutes les listes de l'API : paramètres "page" et "page_size", taille bornée,
// enveloppe {count, next, previous, results}.
package pagination

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	defaultPageSize = 10
	maxPageSize     = 100
)

var ErrInvalidPage = errors.New("page invalide")

// Configure fixe la taille de page par défaut et la borne haute de page_size
func Configure(pageSize, max int) {
	if pageSize > 0 {
		defaultPageSize = pageSize
	}
	if max >= defaultPageSize {
		maxPageSize = max
	}
}

type Params struct {
	Page     int
	PageSize int
}

// FromRequest lit page et page_size. Une page non numérique ou < 1 est une erreur,
// une page_size invalide retombe sur la valeur par défaut.
func FromRequest(c *gin.Context) (Params, error) {
	p := Params{Page: 1, PageSize: defaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, ErrInvalidPage
		}
		p.Page = page
	}

	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.PageSize = size
		}
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Scope applique offset/limit à une requête gorm
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.PageSize)
}

type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage construit l'enveloppe. La première page est toujours valide, les
// suivantes doivent contenir au moins un élément.
func NewPage[T any](c *gin.Context, p Params, total int64, results []T) (Page[T], error) {
	if p.Page > 1 && int64(p.Offset()) >= total {
		return Page[T]{}, ErrInvalidPage
	}
	if results == nil {
		results = []T{}
	}

	page := Page[T]{Count: total, Results: results}
	if int64(p.Page*p.PageSize) < total {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	return page, nil
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
