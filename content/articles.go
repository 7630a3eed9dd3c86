package content

import (
	"strings"
	"time"

	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListArticles returns the articles owned by user acting as role, newest
// first. query matches title, content, publisher name and author username.
func ListArticles(db *gorm.DB, user *model.User, role model.Role, query string) ([]model.Article, error) {
	tx := db.Model(&model.Article{}).Scopes(ArticleScope(user, role))
	if strings.TrimSpace(query) != "" {
		p := likePattern(query)
		tx = tx.Joins("LEFT JOIN publishers ON publishers.id = articles.publisher_id").
			Joins("LEFT JOIN users AS authors ON authors.id = articles.author_id").
			Where("LOWER(articles.title) LIKE ? OR LOWER(articles.content) LIKE ? OR LOWER(publishers.name) LIKE ? OR LOWER(authors.username) LIKE ?", p, p, p, p)
	}
	res := []model.Article{}
	err := tx.Preload("Author").Preload("Publisher").Order("articles.created_at DESC").Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list articles")
	}
	return res, nil
}

// GetArticle loads one article within the scope of role.
func GetArticle(db *gorm.DB, user *model.User, role model.Role, id string) (*model.Article, error) {
	var article model.Article
	err := db.Scopes(ArticleScope(user, role)).
		Preload("Author").Preload("Publisher").Preload("ApprovedBy").
		First(&article, "articles.id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "article")
	}
	return &article, nil
}

// CreateArticle stores a new article written by author. Only independent
// articles may start approved, affiliated ones wait for an editor. Creation
// never counts as an approval transition.
func CreateArticle(db *gorm.DB, author *model.User, form *forms.ArticleForm) (*model.Article, error) {
	article := model.Article{}
	if err := form.Apply(&article); err != nil {
		return nil, err
	}
	article.AuthorID = &author.Id
	if !article.IsIndependent {
		article.IsApproved = false
	}
	if err := db.Omit(clause.Associations).Create(&article).Error; err != nil {
		return nil, errors.Wrap(err, "fail to create article")
	}
	return &article, nil
}

// UpdateArticleAsJournalist applies the journalist's edit and returns the
// approval flag the article had before. Any article carrying a publisher goes
// back to editorial review.
func UpdateArticleAsJournalist(db *gorm.DB, article *model.Article, form *forms.ArticleForm) (bool, error) {
	previous := article.IsApproved
	if err := form.Apply(article); err != nil {
		return previous, err
	}
	if article.PublisherID != nil {
		article.IsApproved = false
		article.IsIndependent = false
	}
	now := time.Now()
	article.DateEdited = &now
	// stale preload
	article.Publisher = nil
	if err := db.Omit(clause.Associations).Save(article).Error; err != nil {
		return previous, errors.Wrap(err, "fail to update article")
	}
	return previous, nil
}

// ReviewArticle sets the approval flag on behalf of editor and returns the
// previous one.
func ReviewArticle(db *gorm.DB, editor *model.User, article *model.Article, form *forms.EditorArticleForm) (bool, error) {
	previous := article.IsApproved
	article.IsApproved = form.IsApproved
	switch {
	case form.IsApproved && !previous:
		now := time.Now()
		article.ApprovedByID = &editor.Id
		article.ApprovedBy = editor
		article.DatePublished = &now
	case !form.IsApproved:
		article.ApprovedByID = nil
		article.ApprovedBy = nil
	}
	if err := db.Omit(clause.Associations).Save(article).Error; err != nil {
		return previous, errors.Wrap(err, "fail to review article")
	}
	return previous, nil
}

// DeleteArticle removes article and takes it out of every newsletter.
func DeleteArticle(db *gorm.DB, article *model.Article) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM newsletter_articles WHERE article_id = ?", article.Id).Error; err != nil {
			return errors.Wrap(err, "fail to detach article from newsletters")
		}
		if err := tx.Delete(&model.Article{}, "id = ?", article.Id).Error; err != nil {
			return errors.Wrap(err, "fail to delete article")
		}
		return nil
	})
}
