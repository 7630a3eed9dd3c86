package forms

import (
	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/utils"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NewsletterForm is what a journalist submits to assemble a newsletter.
type NewsletterForm struct {
	Title         string   `json:"title" validate:"required,max=255"`
	IsIndependent bool     `json:"is_independant"`
	PublisherID   *string  `json:"publisher"`
	ArticleIDs    []string `json:"articles" validate:"dive,required"`
}

// Validate checks the form for journalist. An independent newsletter drops any
// submitted publisher.
func (f *NewsletterForm) Validate(db *gorm.DB, journalist *model.User, current *model.Newsletter) error {
	f.PublisherID = normalizeID(f.PublisherID)
	f.ArticleIDs = utils.DedupStrings(f.ArticleIDs)
	if err := check(f); err != nil {
		return err
	}
	if f.IsIndependent {
		f.PublisherID = nil
	} else if f.PublisherID == nil {
		return invalid("Publisher newsletters must have a publisher selected.")
	}

	if f.PublisherID != nil {
		var currentPublisherID *string
		if current != nil {
			currentPublisherID = current.PublisherID
		}
		publishers, err := PublisherChoices(db, journalist, currentPublisherID)
		if err != nil {
			return err
		}
		if bad := outside([]string{*f.PublisherID}, publisherIDSet(publishers)); len(bad) > 0 {
			return choiceError("publisher", bad)
		}
	}

	if len(f.ArticleIDs) == 0 {
		return nil
	}
	articles, err := NewsletterArticleChoices(db, journalist, f.IsIndependent)
	if err != nil {
		return err
	}
	if bad := outside(f.ArticleIDs, articleIDSet(articles)); len(bad) > 0 {
		return choiceError("articles", bad)
	}
	return nil
}

// Apply copies the scalar fields onto newsletter, articles are attached by the
// caller.
func (f *NewsletterForm) Apply(newsletter *model.Newsletter) error {
	return errors.Wrap(copier.Copy(newsletter, f), "fail to copy newsletter form")
}

// EditorNewsletterForm lets an editor rename a newsletter and pick its
// articles among the approved articles of its publisher.
type EditorNewsletterForm struct {
	Title      string   `json:"title" validate:"required,max=255"`
	ArticleIDs []string `json:"articles" validate:"dive,required"`
}

func (f *EditorNewsletterForm) Validate(db *gorm.DB, newsletter *model.Newsletter) error {
	f.ArticleIDs = utils.DedupStrings(f.ArticleIDs)
	if err := check(f); err != nil {
		return err
	}
	if len(f.ArticleIDs) == 0 {
		return nil
	}
	articles, err := EditorNewsletterArticleChoices(db, newsletter)
	if err != nil {
		return err
	}
	if bad := outside(f.ArticleIDs, articleIDSet(articles)); len(bad) > 0 {
		return choiceError("articles", bad)
	}
	return nil
}
