package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

var ErrInvalidToken = errors.New("token invalide")

// Token est la clé d'API longue durée envoyée en "Authorization: Token <key>"
type Token struct {
	Key       string `gorm:"primaryKey;size:40"`
	UserID    string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func generateKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GetOrCreateToken renvoie la clé de userID, créée au premier appel
func GetOrCreateToken(ctx context.Context, userID string) (string, error) {
	db := database.DB.WithContext(ctx)

	var token Token
	err := db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("find token: %w", err)
	}

	key, err := generateKey()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token = Token{Key: key, UserID: userID, CreatedAt: time.Now()}

	// Deux logins simultanés : le second relit la clé créée par le premier
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&token).Error; err != nil {
		return "", fmt.Errorf("create token: %w", err)
	}
	if err := db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		return "", fmt.Errorf("reload token: %w", err)
	}
	return token.Key, nil
}

// UserIDForToken résout une clé d'API
func UserIDForToken(ctx context.Context, key string) (string, error) {
	var token Token
	if err := database.DB.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("find token: %w", err)
	}
	return token.UserID, nil
}
