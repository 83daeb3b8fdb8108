package utils

import (
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

// Les requêtes passent par la table "follows" plutôt que par le modèle follow.Follow
// pour que le paquet user puisse les utiliser sans cycle d'import.

func IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := database.DB.
		Table("follows").
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFollowers renvoie le nombre d'utilisateurs qui suivent userID
func CountFollowers(userID string) (int64, error) {
	var count int64
	err := database.DB.Table("follows").Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing renvoie le nombre d'utilisateurs suivis par userID
func CountFollowing(userID string) (int64, error) {
	var count int64
	err := database.DB.Table("follows").Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
