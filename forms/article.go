package forms

import (
	"github.com/Luismorlan/newsdesk/model"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgIndependentWithPublisher   = "Independent articles cannot be linked to a publisher."
	msgAffiliatedWithoutPublisher = "Non-independent articles must have a publisher."
)

// ArticleForm is what a journalist submits to write or edit an article.
type ArticleForm struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Content       string  `json:"content" validate:"required"`
	IsIndependent bool    `json:"is_independant"`
	PublisherID   *string `json:"publisher"`
	IsApproved    bool    `json:"is_approved"`
}

// Validate checks the form for journalist. current is the article being
// edited, nil on creation.
func (f *ArticleForm) Validate(db *gorm.DB, journalist *model.User, current *model.Article) error {
	f.PublisherID = normalizeID(f.PublisherID)
	if err := check(f); err != nil {
		return err
	}
	if f.IsIndependent && f.PublisherID != nil {
		return invalid(msgIndependentWithPublisher)
	}
	if !f.IsIndependent && f.PublisherID == nil {
		return invalid(msgAffiliatedWithoutPublisher)
	}
	if f.PublisherID == nil {
		return nil
	}

	var currentPublisherID *string
	if current != nil {
		currentPublisherID = current.PublisherID
	}
	choices, err := PublisherChoices(db, journalist, currentPublisherID)
	if err != nil {
		return err
	}
	if bad := outside([]string{*f.PublisherID}, publisherIDSet(choices)); len(bad) > 0 {
		return choiceError("publisher", bad)
	}
	return nil
}

// Apply copies the submitted fields onto article.
func (f *ArticleForm) Apply(article *model.Article) error {
	return errors.Wrap(copier.Copy(article, f), "fail to copy article form")
}

// EditorArticleForm only carries the approval flag, publisher and independence
// are kept as they are.
type EditorArticleForm struct {
	IsApproved bool `json:"is_approved"`
}

func (f *EditorArticleForm) Validate() error {
	return check(f)
}
