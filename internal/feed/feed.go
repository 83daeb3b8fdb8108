// Package feed assemble le fil d'un utilisateur à partir des comptes qu'il suit,
// ainsi que le flux "découverte" des comptes qu'il ne suit pas encore.
package feed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/follow"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
)

var tracer = otel.Tracer("github.com/ArthurDelaporte/SocialFeed-Back/internal/feed")

const newestFirst = "posts.created_at DESC, posts.id DESC"

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Feed renvoie les posts publiés des comptes suivis par userID. Sans abonnement,
// le fil retombe sur les posts de userID lui-même, brouillons compris.
func Feed(ctx context.Context, userID string, p pagination.Params) ([]post.Post, int64, error) {
	ctx, span := tracer.Start(ctx, "feed.Feed", trace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.Int("page", p.Page),
	))
	defer span.End()

	authors, err := follow.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, 0, fail(span, err)
	}

	var scope post.Scope
	if len(authors) == 0 {
		span.SetAttributes(attribute.Bool("fallback", true))
		scope = func(db *gorm.DB) *gorm.DB {
			return db.Where("posts.author_id = ?", userID)
		}
	} else {
		scope = func(db *gorm.DB) *gorm.DB {
			return db.Where("posts.author_id IN ? AND posts.published = ?", authors, true)
		}
	}
	span.SetAttributes(attribute.Int("authors", len(authors)))

	posts, total, err := post.Page(ctx, newestFirst, p, scope)
	if err != nil {
		return nil, 0, fail(span, fmt.Errorf("feed of %s: %w", userID, err))
	}
	span.SetAttributes(attribute.Int64("total", total))
	return posts, total, nil
}

// Discover renvoie les posts publiés des comptes que userID ne suit pas (hors
// les siens). Un appelant anonyme voit tous les posts publiés.
func Discover(ctx context.Context, userID string, p pagination.Params) ([]post.Post, int64, error) {
	ctx, span := tracer.Start(ctx, "feed.Discover", trace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.Int("page", p.Page),
	))
	defer span.End()

	excluded := []string{}
	if userID != "" {
		authors, err := follow.FollowingIDs(ctx, userID)
		if err != nil {
			return nil, 0, fail(span, err)
		}
		excluded = append(authors, userID)
	}
	span.SetAttributes(attribute.Int("authors", len(excluded)))

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("posts.published = ?", true)
		if len(excluded) > 0 {
			db = db.Where("posts.author_id NOT IN ?", excluded)
		}
		return db
	}

	posts, total, err := post.Page(ctx, newestFirst, p, scope)
	if err != nil {
		return nil, 0, fail(span, fmt.Errorf("discover for %s: %w", userID, err))
	}
	span.SetAttributes(attribute.Int64("total", total))
	return posts, total, nil
}
