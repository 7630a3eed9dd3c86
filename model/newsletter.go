package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Newsletter is a curated collection of approved articles

PublisherID:
Publisher: distributing publisher, null for independent newsletters
JournalistID:
Journalist: journalist who assembled the newsletter
IsIndependent: same convention as Article.IsIndependent
Articles: included articles, "many-to-many" relation
*/
type Newsletter struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Title         string     `gorm:"not null"`
	PublisherID   *string    `gorm:"index"`
	Publisher     *Publisher `gorm:"foreignKey:PublisherID"`
	JournalistID  *string    `gorm:"index"`
	Journalist    *User      `gorm:"foreignKey:JournalistID"`
	IsIndependent bool       `gorm:"not null;default:false"`
	Articles      []*Article `json:"articles" gorm:"many2many:newsletter_articles;"`
}

func (n *Newsletter) BeforeCreate(tx *gorm.DB) error {
	if n.Id == "" {
		n.Id = uuid.New().String()
	}
	return nil
}
