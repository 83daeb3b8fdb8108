package post

import (
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

type Post struct {
	ID        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	AuthorID  string    `gorm:"not null;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"not null"`
	Published bool      `gorm:"not null;index"`

	// Calculé par WithCommentsCount, jamais écrit
	CommentsCount int64 `gorm:"->;-:migration"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	PostID    string    `gorm:"not null;index"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID  string    `gorm:"not null;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"not null"`
}
