package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

User is an account of the newsroom

Id: primary key, uuid
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated

Username: unique login name, also the public name of a journalist
Email: unique, used for notifications and password reset
Role: reader, editor or journalist, fixed at registration
IsManager: grants the publisher management surface on top of Role

PublisherSubscriptions: publishers a reader follows, "many-to-many" relation
JournalistSubscriptions: journalists a reader follows, asymmetric "many-to-many"
	self relation stored as (reader_id, journalist_id)

Both subscription sets are only meaningful for readers and are cleared every
time an editor or journalist is saved.
*/
type User struct {
	Id                      string `gorm:"primaryKey"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Username                string `gorm:"uniqueIndex;not null"`
	FirstName               string
	LastName                string
	Email                   string `gorm:"uniqueIndex;not null"`
	Phone                   *string
	PasswordHash            string `json:"-"`
	Role                    Role   `gorm:"type:varchar(20);not null;default:reader"`
	IsManager               bool
	PublisherSubscriptions  []*Publisher `json:"publisher_subscriptions" gorm:"many2many:reader_publisher_subscriptions;"`
	JournalistSubscriptions []*User      `json:"journalist_subscriptions" gorm:"many2many:reader_journalist_subscriptions;joinForeignKey:ReaderID;joinReferences:JournalistID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == "" {
		u.Id = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleReader
	}
	return nil
}

// AfterSave drops any subscription a non-reader might carry.
func (u *User) AfterSave(tx *gorm.DB) error {
	if u.Role.CanSubscribe() {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	if err := db.Model(u).Association("PublisherSubscriptions").Clear(); err != nil {
		return err
	}
	if err := db.Model(u).Association("JournalistSubscriptions").Clear(); err != nil {
		return err
	}
	u.PublisherSubscriptions = nil
	u.JournalistSubscriptions = nil
	return nil
}

// HasRole reports whether the user may act under r.
func (u *User) HasRole(r Role) bool {
	if r == RoleManager {
		return u.IsManager
	}
	return u.Role == r
}

// PrimaryRole is the role used to pick a landing page, managers first.
func (u *User) PrimaryRole() Role {
	if u.IsManager {
		return RoleManager
	}
	return u.Role
}
