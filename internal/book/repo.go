package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
)

var ErrNotFound = errors.New("livre introuvable")

type Filter struct {
	Title           string
	Author          string
	PublicationYear *int
	Search          string
	Ordering        string
}

var orderable = map[string]bool{"title": true, "publication_year": true}

func (f Filter) order() string {
	field := strings.TrimPrefix(f.Ordering, "-")
	if !orderable[field] {
		return "books.title ASC, books.id ASC"
	}
	dir := "ASC"
	if strings.HasPrefix(f.Ordering, "-") {
		dir = "DESC"
	}
	return fmt.Sprintf("books.%s %s, books.id %s", field, dir, dir)
}

func (f Filter) apply(db *gorm.DB) *gorm.DB {
	if f.Title != "" {
		db = db.Where("books.title = ?", f.Title)
	}
	if f.Author != "" {
		db = db.Where("books.author = ?", f.Author)
	}
	if f.PublicationYear != nil {
		db = db.Where("books.publication_year = ?", *f.PublicationYear)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where("LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ?", pattern, pattern)
	}
	return db
}

func Query(ctx context.Context, f Filter, p pagination.Params) ([]Book, int64, error) {
	var total int64
	if err := database.DB.WithContext(ctx).Model(&Book{}).Scopes(f.apply).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	var books []Book
	if err := database.DB.WithContext(ctx).
		Scopes(f.apply, p.Scope).
		Order(f.order()).
		Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

func Find(ctx context.Context, id string) (*Book, error) {
	var b Book
	if err := database.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book %s: %w", id, err)
	}
	return &b, nil
}

func Insert(ctx context.Context, b *Book) error {
	if err := database.DB.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func ApplyChanges(ctx context.Context, b *Book, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := database.DB.WithContext(ctx).Model(b).Updates(fields).Error; err != nil {
		return fmt.Errorf("update book %s: %w", b.ID, err)
	}
	return nil
}

func Remove(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&Book{}).Error; err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}
