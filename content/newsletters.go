package content

import (
	"strings"

	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListNewsletters returns the newsletters owned by user acting as role, newest
// first. query matches title, publisher name and journalist username.
func ListNewsletters(db *gorm.DB, user *model.User, role model.Role, query string) ([]model.Newsletter, error) {
	tx := db.Model(&model.Newsletter{}).Scopes(NewsletterScope(user, role))
	if strings.TrimSpace(query) != "" {
		p := likePattern(query)
		tx = tx.Joins("LEFT JOIN publishers ON publishers.id = newsletters.publisher_id").
			Joins("LEFT JOIN users AS journalists ON journalists.id = newsletters.journalist_id").
			Where("LOWER(newsletters.title) LIKE ? OR LOWER(publishers.name) LIKE ? OR LOWER(journalists.username) LIKE ?", p, p, p)
	}
	res := []model.Newsletter{}
	err := tx.Preload("Journalist").Preload("Publisher").Preload("Articles").
		Order("newsletters.created_at DESC").Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list newsletters")
	}
	return res, nil
}

// GetNewsletter loads one newsletter within the scope of role.
func GetNewsletter(db *gorm.DB, user *model.User, role model.Role, id string) (*model.Newsletter, error) {
	var newsletter model.Newsletter
	err := db.Scopes(NewsletterScope(user, role)).
		Preload("Journalist").Preload("Publisher").Preload("Articles.Author").
		First(&newsletter, "newsletters.id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "newsletter")
	}
	return &newsletter, nil
}

func loadArticles(tx *gorm.DB, ids []string) ([]*model.Article, error) {
	res := []*model.Article{}
	if len(ids) == 0 {
		return res, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load newsletter articles")
	}
	return res, nil
}

func saveNewsletter(db *gorm.DB, newsletter *model.Newsletter, articleIDs []string, create bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		articles, err := loadArticles(tx, articleIDs)
		if err != nil {
			return err
		}
		newsletter.Publisher = nil
		newsletter.Journalist = nil
		newsletter.Articles = nil
		if create {
			err = tx.Omit(clause.Associations).Create(newsletter).Error
		} else {
			err = tx.Omit(clause.Associations).Save(newsletter).Error
		}
		if err != nil {
			return errors.Wrap(err, "fail to save newsletter")
		}
		if err := tx.Model(newsletter).Association("Articles").Replace(articles); err != nil {
			return errors.Wrap(err, "fail to attach newsletter articles")
		}
		return nil
	})
}

// CreateNewsletter stores a newsletter assembled by journalist.
func CreateNewsletter(db *gorm.DB, journalist *model.User, form *forms.NewsletterForm) (*model.Newsletter, error) {
	newsletter := model.Newsletter{}
	if err := form.Apply(&newsletter); err != nil {
		return nil, err
	}
	newsletter.JournalistID = &journalist.Id
	if err := saveNewsletter(db, &newsletter, form.ArticleIDs, true); err != nil {
		return nil, err
	}
	return &newsletter, nil
}

func UpdateNewsletterAsJournalist(db *gorm.DB, newsletter *model.Newsletter, form *forms.NewsletterForm) error {
	if err := form.Apply(newsletter); err != nil {
		return err
	}
	return saveNewsletter(db, newsletter, form.ArticleIDs, false)
}

// UpdateNewsletterAsEditor changes the title and the article selection only.
func UpdateNewsletterAsEditor(db *gorm.DB, newsletter *model.Newsletter, form *forms.EditorNewsletterForm) error {
	newsletter.Title = form.Title
	return saveNewsletter(db, newsletter, form.ArticleIDs, false)
}

func DeleteNewsletter(db *gorm.DB, newsletter *model.Newsletter) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM newsletter_articles WHERE newsletter_id = ?", newsletter.Id).Error; err != nil {
			return errors.Wrap(err, "fail to detach newsletter articles")
		}
		if err := tx.Delete(&model.Newsletter{}, "id = ?", newsletter.Id).Error; err != nil {
			return errors.Wrap(err, "fail to delete newsletter")
		}
		return nil
	})
}
