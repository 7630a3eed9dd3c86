package forms

import (
	"strings"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/utils"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PublisherForm is the manager's publisher editor.
type PublisherForm struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   string   `json:"description"`
	JournalistIDs []string `json:"journalists" validate:"dive,required"`
	EditorIDs     []string `json:"editors" validate:"dive,required"`
}

func (f *PublisherForm) Validate(db *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.JournalistIDs = utils.DedupStrings(f.JournalistIDs)
	f.EditorIDs = utils.DedupStrings(f.EditorIDs)
	if err := check(f); err != nil {
		return err
	}
	if err := checkUsersWithRole(db, "journalists", f.JournalistIDs, model.RoleJournalist); err != nil {
		return err
	}
	return checkUsersWithRole(db, "editors", f.EditorIDs, model.RoleEditor)
}

func (f *PublisherForm) Apply(publisher *model.Publisher) error {
	return errors.Wrap(copier.Copy(publisher, f), "fail to copy publisher form")
}

// SubscriptionForm replaces a reader's subscriptions.
type SubscriptionForm struct {
	PublisherIDs  []string `json:"reader_publisher_subscriptions" validate:"dive,required"`
	JournalistIDs []string `json:"reader_journalist_subscriptions" validate:"dive,required"`
}

func (f *SubscriptionForm) Validate(db *gorm.DB) error {
	f.PublisherIDs = utils.DedupStrings(f.PublisherIDs)
	f.JournalistIDs = utils.DedupStrings(f.JournalistIDs)
	if err := check(f); err != nil {
		return err
	}
	if len(f.PublisherIDs) > 0 {
		publishers, err := AllPublishers(db)
		if err != nil {
			return err
		}
		if bad := outside(f.PublisherIDs, publisherIDSet(publishers)); len(bad) > 0 {
			return choiceError("reader_publisher_subscriptions", bad)
		}
	}
	return checkUsersWithRole(db, "reader_journalist_subscriptions", f.JournalistIDs, model.RoleJournalist)
}

func checkUsersWithRole(db *gorm.DB, field string, ids []string, role model.Role) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := UsersWithRole(db, role)
	if err != nil {
		return err
	}
	if bad := outside(ids, userIDSet(users)); len(bad) > 0 {
		return choiceError(field, bad)
	}
	return nil
}
