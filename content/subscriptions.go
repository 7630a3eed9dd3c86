package content

import (
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetSubscriptions reloads reader with both subscription sets.
func GetSubscriptions(db *gorm.DB, reader *model.User) (*model.User, error) {
	var res model.User
	err := db.Preload("PublisherSubscriptions", func(db *gorm.DB) *gorm.DB {
		return db.Order("publishers.name")
	}).Preload("JournalistSubscriptions", func(db *gorm.DB) *gorm.DB {
		return db.Order("users.username")
	}).First(&res, "id = ?", reader.Id).Error
	if err != nil {
		return nil, notFound(err, "subscriptions")
	}
	return &res, nil
}

// SetSubscriptions replaces both subscription sets of reader.
func SetSubscriptions(db *gorm.DB, reader *model.User, form *forms.SubscriptionForm) (*model.User, error) {
	if !reader.Role.CanSubscribe() {
		return nil, ErrNotFound
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		publishers := []*model.Publisher{}
		if len(form.PublisherIDs) > 0 {
			if err := tx.Where("id IN ?", form.PublisherIDs).Find(&publishers).Error; err != nil {
				return errors.Wrap(err, "fail to load publishers")
			}
		}
		journalists, err := loadUsers(tx, form.JournalistIDs)
		if err != nil {
			return err
		}
		// association writes run the user save hooks, keep the role
		target := *reader
		target.PublisherSubscriptions = nil
		target.JournalistSubscriptions = nil
		if err := tx.Model(&target).Association("PublisherSubscriptions").Replace(publishers); err != nil {
			return errors.Wrap(err, "fail to set publisher subscriptions")
		}
		if err := tx.Model(&target).Association("JournalistSubscriptions").Replace(journalists); err != nil {
			return errors.Wrap(err, "fail to set journalist subscriptions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetSubscriptions(db, reader)
}

// SubscriptionChoices are every publisher and every journalist.
func SubscriptionChoices(db *gorm.DB) ([]model.Publisher, []model.User, error) {
	publishers, err := forms.AllPublishers(db)
	if err != nil {
		return nil, nil, err
	}
	journalists, err := forms.UsersWithRole(db, model.RoleJournalist)
	if err != nil {
		return nil, nil, err
	}
	return publishers, journalists, nil
}
