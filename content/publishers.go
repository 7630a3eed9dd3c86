package content

import (
	"strings"

	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPublishers returns every publisher, query matches name and description.
func ListPublishers(db *gorm.DB, query string) ([]model.Publisher, error) {
	tx := db.Model(&model.Publisher{})
	if strings.TrimSpace(query) != "" {
		p := likePattern(query)
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	res := []model.Publisher{}
	if err := tx.Preload(clause.Associations).Order("name").Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list publishers")
	}
	return res, nil
}

func GetPublisher(db *gorm.DB, id string) (*model.Publisher, error) {
	var publisher model.Publisher
	if err := db.Preload(clause.Associations).First(&publisher, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "publisher")
	}
	return &publisher, nil
}

func nameTaken(tx *gorm.DB, name string, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&model.Publisher{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "fail to check publisher name")
	}
	return count > 0, nil
}

func loadUsers(tx *gorm.DB, ids []string) ([]*model.User, error) {
	res := []*model.User{}
	if len(ids) == 0 {
		return res, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load users")
	}
	return res, nil
}

func savePublisher(db *gorm.DB, publisher *model.Publisher, form *forms.PublisherForm, create bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, form.Name, publisher.Id)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicatePublisher
		}
		if err := form.Apply(publisher); err != nil {
			return err
		}
		journalists, err := loadUsers(tx, form.JournalistIDs)
		if err != nil {
			return err
		}
		editors, err := loadUsers(tx, form.EditorIDs)
		if err != nil {
			return err
		}
		publisher.Journalists = nil
		publisher.Editors = nil
		if create {
			err = tx.Omit(clause.Associations).Create(publisher).Error
		} else {
			err = tx.Omit(clause.Associations).Save(publisher).Error
		}
		if err != nil {
			return errors.Wrap(err, "fail to save publisher")
		}
		if err := tx.Model(publisher).Association("Journalists").Replace(journalists); err != nil {
			return errors.Wrap(err, "fail to set publisher journalists")
		}
		if err := tx.Model(publisher).Association("Editors").Replace(editors); err != nil {
			return errors.Wrap(err, "fail to set publisher editors")
		}
		return nil
	})
}

// CreatePublisher fails with ErrDuplicatePublisher when the name is taken.
func CreatePublisher(db *gorm.DB, form *forms.PublisherForm) (*model.Publisher, error) {
	publisher := model.Publisher{}
	if err := savePublisher(db, &publisher, form, true); err != nil {
		return nil, err
	}
	return GetPublisher(db, publisher.Id)
}

// UpdatePublisher fails with ErrDuplicatePublisher when another publisher
// already uses the name.
func UpdatePublisher(db *gorm.DB, publisher *model.Publisher, form *forms.PublisherForm) (*model.Publisher, error) {
	if err := savePublisher(db, publisher, form, false); err != nil {
		return nil, err
	}
	return GetPublisher(db, publisher.Id)
}

// DeletePublisher removes publisher. Its articles and newsletters survive
// without a publisher.
func DeletePublisher(db *gorm.DB, publisher *model.Publisher) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"articles", "newsletters"} {
			if err := tx.Table(table).Where("publisher_id = ?", publisher.Id).Update("publisher_id", nil).Error; err != nil {
				return errors.Wrapf(err, "fail to detach %s", table)
			}
		}
		for _, table := range []string{"publisher_journalists", "publisher_editors", "reader_publisher_subscriptions"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE publisher_id = ?", publisher.Id).Error; err != nil {
				return errors.Wrapf(err, "fail to clean %s", table)
			}
		}
		if err := tx.Delete(&model.Publisher{}, "id = ?", publisher.Id).Error; err != nil {
			return errors.Wrap(err, "fail to delete publisher")
		}
		return nil
	})
}
