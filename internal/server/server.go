// Package server assemble le routeur gin : table des routes /api, middlewares et migrations.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/book"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/feed"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/follow"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/middleware"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// Migrate crée ou met à jour toutes les tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&auth.Token{},
		&follow.Follow{},
		&post.Post{},
		&post.Comment{},
		&book.Book{},
	)
}

func New() *gin.Engine {
	r := gin.New()
	r.Use(logs.RequestLogger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route introuvable"})
	})

	requireAuth := middleware.AuthMiddleware()
	optionalAuth := middleware.OptionalAuthMiddleware()

	api := r.Group("/api")

	// Comptes
	accounts := api.Group("/accounts")
	accounts.POST("/register", auth.Signup)
	accounts.POST("/login", auth.Login)
	accounts.GET("/token", requireAuth, auth.GetToken)
	accounts.GET("/profile", requireAuth, user.GetMe)
	accounts.PUT("/profile", requireAuth, user.UpdateMe)
	accounts.PATCH("/profile", requireAuth, user.UpdateMe)
	accounts.PUT("/profile/picture", requireAuth, user.UploadProfilePicture)
	accounts.GET("/users", optionalAuth, user.SearchUsers)
	accounts.GET("/users/:username", optionalAuth, user.GetUserByUsername)
	accounts.GET("/users/:username/posts", optionalAuth, post.GetPostsByUsername)

	// Abonnements
	accounts.POST("/follow/:username", requireAuth, follow.ToggleFollow)
	accounts.POST("/unfollow/:username", requireAuth, follow.UnfollowUser)
	accounts.GET("/following", requireAuth, follow.GetFollowing)
	accounts.GET("/following/:username", optionalAuth, follow.GetFollowing)
	accounts.GET("/followers", requireAuth, follow.GetFollowers)
	accounts.GET("/followers/:username", optionalAuth, follow.GetFollowers)

	// Posts
	posts := api.Group("/posts")
	posts.GET("", optionalAuth, post.ListPosts)
	posts.POST("", requireAuth, post.CreatePost)
	posts.GET("/feed", requireAuth, feed.GetFeed)
	posts.GET("/discover", optionalAuth, feed.GetDiscover)
	posts.GET("/:id", optionalAuth, post.GetPost)
	posts.PUT("/:id", requireAuth, post.UpdatePost)
	posts.PATCH("/:id", requireAuth, post.UpdatePost)
	posts.DELETE("/:id", requireAuth, post.DeletePost)
	posts.GET("/:id/comments", optionalAuth, post.ListPostComments)
	posts.POST("/:id/comments", requireAuth, post.CreateComment)

	// Commentaires
	comments := api.Group("/comments")
	comments.GET("", optionalAuth, post.ListComments)
	comments.GET("/:id", optionalAuth, post.GetComment)
	comments.PUT("/:id", requireAuth, post.UpdateComment)
	comments.PATCH("/:id", requireAuth, post.UpdateComment)
	comments.DELETE("/:id", requireAuth, post.DeleteComment)

	// Catalogue
	books := api.Group("/books")
	books.GET("", optionalAuth, book.ListBooks)
	books.POST("", requireAuth, book.CreateBook)
	books.GET("/:id", optionalAuth, book.GetBook)
	books.PUT("/:id", requireAuth, book.UpdateBook)
	books.PATCH("/:id", requireAuth, book.UpdateBook)
	books.DELETE("/:id", requireAuth, book.DeleteBook)

	return r
}
