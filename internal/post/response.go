package post

import (
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

type PostResponse struct {
	ID            string       `json:"id"`
	Author        user.Summary `json:"author"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Published     bool         `json:"published"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CommentsCount int64        `json:"comments_count"`
}

// PostDetail est la vue d'un post seul, avec ses commentaires
type PostDetail struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

type CommentResponse struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post"`
	Author    user.Summary `json:"author"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (p *Post) Response() PostResponse {
	return PostResponse{
		ID:            p.ID,
		Author:        p.Author.Summary(),
		Title:         p.Title,
		Content:       p.Content,
		Published:     p.Published,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CommentsCount: p.CommentsCount,
	}
}

func (cm *Comment) Response() CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		Author:    cm.Author.Summary(),
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}

func PostResponses(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].Response())
	}
	return out
}

func CommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].Response())
	}
	return out
}
