package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Publisher is a news organization

Name: unique display name
Description: free text
Journalists: journalists writing for the publisher, "many-to-many" relation
Editors: editors reviewing the publisher's articles and newsletters,
	"many-to-many" relation

Deleting a publisher detaches its articles and newsletters instead of
deleting them.
*/
type Publisher struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string  `gorm:"uniqueIndex;not null"`
	Description string
	Journalists []*User `json:"journalists" gorm:"many2many:publisher_journalists;"`
	Editors     []*User `json:"editors" gorm:"many2many:publisher_editors;"`
}

func (p *Publisher) BeforeCreate(tx *gorm.DB) error {
	if p.Id == "" {
		p.Id = uuid.New().String()
	}
	return nil
}
