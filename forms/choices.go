package forms

import (
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func publishersOfJournalist(db *gorm.DB, journalistID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("publisher_journalists").Select("publisher_id").Where("user_id = ?", journalistID)
}

// PublisherChoices are the publishers a journalist may attach an article or a
// newsletter to: the ones they write for, plus the current publisher of the
// object being edited so that an existing affiliation stays selectable.
func PublisherChoices(db *gorm.DB, journalist *model.User, currentPublisherID *string) ([]model.Publisher, error) {
	tx := db.Where("id IN (?)", publishersOfJournalist(db, journalist.Id))
	if currentPublisherID != nil {
		tx = tx.Or("id = ?", *currentPublisherID)
	}
	var res []model.Publisher
	if err := tx.Order("name").Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load publisher choices")
	}
	return res, nil
}

// NewsletterArticleChoices are the articles a journalist may put in a
// newsletter: their own articles for an independent newsletter, approved
// articles otherwise.
func NewsletterArticleChoices(db *gorm.DB, journalist *model.User, independent bool) ([]model.Article, error) {
	tx := db.Preload("Author").Preload("Publisher")
	if independent {
		tx = tx.Where("author_id = ?", journalist.Id)
	} else {
		tx = tx.Where("is_approved = ?", true)
	}
	var res []model.Article
	if err := tx.Order("created_at DESC").Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load article choices")
	}
	return res, nil
}

// EditorNewsletterArticleChoices are the approved articles of the newsletter's
// publisher, none for a newsletter without publisher.
func EditorNewsletterArticleChoices(db *gorm.DB, newsletter *model.Newsletter) ([]model.Article, error) {
	res := []model.Article{}
	if newsletter.PublisherID == nil {
		return res, nil
	}
	err := db.Preload("Author").
		Where("publisher_id = ? AND is_approved = ?", *newsletter.PublisherID, true).
		Order("created_at DESC").
		Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to load article choices")
	}
	return res, nil
}

// UsersWithRole lists every user holding role, used for the journalist and
// editor pickers.
func UsersWithRole(db *gorm.DB, role model.Role) ([]model.User, error) {
	var res []model.User
	if err := db.Where("role = ?", role).Order("username").Find(&res).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to load %s choices", role)
	}
	return res, nil
}

func AllPublishers(db *gorm.DB) ([]model.Publisher, error) {
	var res []model.Publisher
	if err := db.Order("name").Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load publisher choices")
	}
	return res, nil
}

func publisherIDSet(publishers []model.Publisher) map[string]bool {
	res := make(map[string]bool, len(publishers))
	for _, p := range publishers {
		res[p.Id] = true
	}
	return res
}

func articleIDSet(articles []model.Article) map[string]bool {
	res := make(map[string]bool, len(articles))
	for _, a := range articles {
		res[a.Id] = true
	}
	return res
}

func userIDSet(users []model.User) map[string]bool {
	res := make(map[string]bool, len(users))
	for _, u := range users {
		res[u.Id] = true
	}
	return res
}
