package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

var (
	ErrNotFound      = errors.New("utilisateur introuvable")
	ErrUsernameTaken = errors.New("nom d'utilisateur déjà utilisé")
)

func ExistsByEmail(ctx context.Context, email string) bool {
	var count int64
	database.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func ExistsByUsername(ctx context.Context, username string) bool {
	var count int64
	database.DB.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

func FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := database.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := database.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

// Create insère u ; un username déjà pris renvoie ErrUsernameTaken
func Create(ctx context.Context, u *User) error {
	if err := database.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func Save(ctx context.Context, u *User) error {
	if err := database.DB.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}

// Search cherche dans username, prénom et nom, sans tenir compte de la casse
func Search(ctx context.Context, term string, offset, limit int) ([]User, int64, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	query := func() *gorm.DB {
		return database.DB.WithContext(ctx).Model(&User{}).
			Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
				pattern, pattern, pattern)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users matching %q: %w", term, err)
	}

	var users []User
	if err := query().Order("username").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("search users %q: %w", term, err)
	}
	return users, total, nil
}
