package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Article is a piece of news written by a journalist

AuthorID:
Author: writing journalist, null once the journalist account is deleted
IsIndependent: self published by the journalist, no publisher and no editorial
	review
PublisherID:
Publisher: affiliated publisher, set iff IsIndependent is false
IsApproved: visible to subscribers; flipping it from false to true notifies
	the publisher's readers
ApprovedByID:
ApprovedBy: editor who approved the article
DateEdited: last time the journalist changed the article
DatePublished: last time the article got approved
*/
type Article struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Title         string `gorm:"not null"`
	Content       string
	AuthorID      *string    `gorm:"index"`
	Author        *User      `gorm:"foreignKey:AuthorID"`
	IsIndependent bool       `gorm:"not null;default:false"`
	PublisherID   *string    `gorm:"index"`
	Publisher     *Publisher `gorm:"foreignKey:PublisherID"`
	IsApproved    bool       `gorm:"not null;default:false"`
	ApprovedByID  *string
	ApprovedBy    *User `gorm:"foreignKey:ApprovedByID"`
	DateEdited    *time.Time
	DatePublished *time.Time
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.Id == "" {
		a.Id = uuid.New().String()
	}
	return nil
}

// AuthorUsername is empty for articles whose author was deleted.
func (a *Article) AuthorUsername() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Username
}

func (a *Article) PublisherName() string {
	if a.Publisher == nil {
		return ""
	}
	return a.Publisher.Name
}
