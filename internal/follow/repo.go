package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

var (
	ErrSelfFollow   = errors.New("impossible de se suivre soi-même")
	ErrNotFollowing = errors.New("utilisateur non suivi")
)

var tracer = otel.Tracer("github.com/ArthurDelaporte/SocialFeed-Back/internal/follow")

// Toggle supprime l'arête si elle existe, la crée sinon. Renvoie true si
// followerID suit followingID à l'issue de l'appel.
func Toggle(ctx context.Context, followerID, followingID string) (followed bool, err error) {
	ctx, span := tracer.Start(ctx, "follow.Toggle")
	defer span.End()
	span.SetAttributes(
		attribute.String("follower_id", followerID),
		attribute.String("following_id", followingID),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Bool("followed", followed))
	}()

	if followerID == followingID {
		return false, ErrSelfFollow
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&Follow{})
		if res.Error != nil {
			return fmt.Errorf("delete follow: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			followed = false
			return nil
		}

		// Un insert concurrent du même couple est ignoré : l'arête existe, on suit
		edge := Follow{
			ID:          uuid.New().String(),
			CreatedAt:   time.Now(),
			FollowerID:  followerID,
			FollowingID: followingID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return fmt.Errorf("create follow: %w", err)
		}
		followed = true
		return nil
	})
	return followed, err
}

// Unfollow supprime l'arête, ErrNotFollowing si elle n'existait pas
func Unfollow(ctx context.Context, followerID, followingID string) error {
	res := database.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&Follow{})
	if res.Error != nil {
		return fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// FollowingIDs renvoie les ids des utilisateurs suivis par userID
func FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := database.DB.WithContext(ctx).
		Model(&Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("following ids of %s: %w", userID, err)
	}
	return ids, nil
}

// ListFollowing renvoie une page des utilisateurs suivis par userID, derniers suivis d'abord
func ListFollowing(ctx context.Context, userID string, p pagination.Params) ([]user.User, int64, error) {
	return listUsers(ctx, "follows.following_id", "follows.follower_id", userID, p)
}

// ListFollowers renvoie une page des utilisateurs qui suivent userID
func ListFollowers(ctx context.Context, userID string, p pagination.Params) ([]user.User, int64, error) {
	return listUsers(ctx, "follows.follower_id", "follows.following_id", userID, p)
}

func listUsers(ctx context.Context, joinColumn, filterColumn, userID string, p pagination.Params) ([]user.User, int64, error) {
	query := func() *gorm.DB {
		return database.DB.WithContext(ctx).
			Model(&user.User{}).
			Joins("JOIN follows ON "+joinColumn+" = users.id").
			Where(filterColumn+" = ?", userID)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count follows of %s: %w", userID, err)
	}

	var users []user.User
	if err := query().
		Select("users.*").
		Order("follows.created_at DESC").
		Order("users.id").
		Scopes(p.Scope).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list follows of %s: %w", userID, err)
	}
	return users, total, nil
}
