package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

PasswordResetToken is a single use credential allowing a user to pick a new
password. Only the sha1 hex digest of the raw token is stored.

UserID: owner, the token is deleted together with the user
TokenHash: sha1(raw token), unique
ExpiresAt: issue time + ResetTokenLifetime
Used: set once the token has been consumed
*/
type PasswordResetToken struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string `gorm:"index;not null"`
	User      *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TokenHash string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	Used      bool
}

const ResetTokenLifetime = 5 * time.Minute

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.Id == "" {
		t.Id = uuid.New().String()
	}
	return nil
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
