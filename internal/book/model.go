package book

import "time"

type Book struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `gorm:"size:200;not null;index" json:"title"`
	Author          string    `gorm:"size:100;not null;index" json:"author"`
	PublicationYear int       `gorm:"not null;index" json:"publication_year"`
	Pages           int       `gorm:"not null" json:"pages"`
	Description     string    `json:"description"`
}
