package post

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
)

var (
	ErrPostNotFound    = errors.New("post introuvable")
	ErrCommentNotFound = errors.New("commentaire introuvable")
)

type Scope = func(*gorm.DB) *gorm.DB

// WithCommentsCount remplit Post.CommentsCount par sous-requête
func WithCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count")
}

// VisibleTo limite aux posts publiés, plus les brouillons de callerID
func VisibleTo(callerID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if callerID == "" {
			return db.Where("posts.published = ?", true)
		}
		return db.Where("posts.published = ? OR posts.author_id = ?", true, callerID)
	}
}

// Ordering traduit un paramètre "ordering" ("-created_at", "title"...) en ORDER BY.
// Les champs hors allowed retombent sur fallback.
func Ordering(table, raw, fallback string, allowed ...string) string {
	field := strings.TrimSpace(raw)
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	ok := false
	for _, a := range allowed {
		if a == field {
			ok = true
			break
		}
	}
	if !ok {
		desc = strings.HasPrefix(fallback, "-")
		field = strings.TrimPrefix(fallback, "-")
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s.%s %s, %s.id %s", table, field, dir, table, dir)
}

// Page compte puis charge une page de posts filtrés par scopes, avec auteur et compteur
func Page(ctx context.Context, order string, p pagination.Params, scopes ...Scope) ([]Post, int64, error) {
	var total int64
	if err := database.DB.WithContext(ctx).Model(&Post{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var posts []Post
	if err := database.DB.WithContext(ctx).
		Model(&Post{}).
		Scopes(scopes...).
		Scopes(WithCommentsCount, p.Scope).
		Preload("Author").
		Order(order).
		Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

type ListFilter struct {
	CallerID string
	Search   string
	Author   string
	Ordering string
}

func QueryPosts(ctx context.Context, f ListFilter, p pagination.Params) ([]Post, int64, error) {
	scopes := []Scope{VisibleTo(f.CallerID)}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?", pattern, pattern)
		})
	}
	if f.Author != "" {
		scopes = append(scopes, byAuthorUsername("posts", f.Author))
	}
	order := Ordering("posts", f.Ordering, "-created_at", "created_at", "updated_at", "title")
	return Page(ctx, order, p, scopes...)
}

func byAuthorUsername(table, username string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".author_id IN (SELECT id FROM users WHERE username = ?)", username)
	}
}

// FindVisiblePost charge un post lisible par callerID ; un brouillon d'un autre
// auteur est traité comme introuvable.
func FindVisiblePost(ctx context.Context, id, callerID string) (*Post, error) {
	var p Post
	err := database.DB.WithContext(ctx).
		Model(&Post{}).
		Scopes(WithCommentsCount, VisibleTo(callerID)).
		Preload("Author").
		Where("posts.id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	return &p, nil
}

func InsertPost(ctx context.Context, p *Post) error {
	if err := database.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ApplyPostChanges écrit uniquement les colonnes de fields ; author_id n'en fait jamais partie
func ApplyPostChanges(ctx context.Context, p *Post, fields map[string]interface{}) error {
	delete(fields, "author_id")
	if len(fields) == 0 {
		return nil
	}
	if err := database.DB.WithContext(ctx).Model(p).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	return nil
}

// RemovePost supprime les commentaires puis le post dans une même transaction
func RemovePost(ctx context.Context, id string) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&Post{})
		if res.Error != nil {
			return fmt.Errorf("delete post %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

type CommentFilter struct {
	CallerID string
	PostID   string
	Author   string
	Search   string
	Ordering string
}

// QueryComments liste les commentaires des posts visibles par CallerID
func QueryComments(ctx context.Context, f CommentFilter, p pagination.Params) ([]Comment, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		visible := database.DB.Model(&Post{}).Select("posts.id").Scopes(VisibleTo(f.CallerID))
		db = db.Where("comments.post_id IN (?)", visible)
		if f.PostID != "" {
			db = db.Where("comments.post_id = ?", f.PostID)
		}
		if f.Author != "" {
			db = byAuthorUsername("comments", f.Author)(db)
		}
		if f.Search != "" {
			db = db.Where("LOWER(comments.content) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
		}
		return db
	}

	var total int64
	if err := database.DB.WithContext(ctx).Model(&Comment{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var comments []Comment
	if err := database.DB.WithContext(ctx).
		Model(&Comment{}).
		Scopes(filter, p.Scope).
		Preload("Author").
		Order(Ordering("comments", f.Ordering, "created_at", "created_at", "updated_at")).
		Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// CommentsOf renvoie tous les commentaires d'un post, du plus ancien au plus récent
func CommentsOf(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := database.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("comments of post %s: %w", postID, err)
	}
	return comments, nil
}

// FindVisibleComment charge un commentaire dont le post est lisible par callerID
func FindVisibleComment(ctx context.Context, id, callerID string) (*Comment, error) {
	visible := database.DB.Model(&Post{}).Select("posts.id").Scopes(VisibleTo(callerID))

	var cm Comment
	err := database.DB.WithContext(ctx).
		Preload("Author").
		Where("comments.id = ? AND comments.post_id IN (?)", id, visible).
		First(&cm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment %s: %w", id, err)
	}
	return &cm, nil
}

func InsertComment(ctx context.Context, cm *Comment) error {
	if err := database.DB.WithContext(ctx).Omit(clause.Associations).Create(cm).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func ApplyCommentContent(ctx context.Context, cm *Comment, content string) error {
	if err := database.DB.WithContext(ctx).Model(cm).Omit(clause.Associations).Update("content", content).Error; err != nil {
		return fmt.Errorf("update comment %s: %w", cm.ID, err)
	}
	return nil
}

func RemoveComment(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&Comment{}).Error; err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}
