package user

import (
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

// Summary est la forme courte d'un utilisateur (auteur d'un post, liste de follows)
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Summary() Summary {
	if u == nil {
		return Summary{}
	}
	return Summary{ID: u.ID, Username: u.Username}
}

type Profile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	DateJoined     time.Time `json:"date_joined"`
	IsFollowing    *bool     `json:"is_following,omitempty"`
}

// BuildProfile sérialise u avec ses compteurs. L'email n'est exposé que si private.
func BuildProfile(u *User, private bool) (Profile, error) {
	followers, err := utils.CountFollowers(u.ID)
	if err != nil {
		return Profile{}, err
	}
	following, err := utils.CountFollowing(u.ID)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		FollowersCount: followers,
		FollowingCount: following,
		DateJoined:     u.CreatedAt,
	}
	if private {
		p.Email = u.Email
	}
	return p, nil
}
