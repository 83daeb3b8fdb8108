package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID             string `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"uniqueIndex;size:150;not null"`
	Email          string `gorm:"index;size:254"`
	PasswordHash   string `gorm:"not null"`
	FirstName      string `gorm:"size:150"`
	LastName       string `gorm:"size:150"`
	Bio            string `gorm:"size:500"`
	ProfilePicture string
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
