package follow

import (
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// Follow est une arête orientée follower -> following, unique par couple
type Follow struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	FollowerID  string    `gorm:"not null;uniqueIndex:idx_follower_following"`
	Follower    user.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID string    `gorm:"not null;uniqueIndex:idx_follower_following;index"`
	Following   user.User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}
