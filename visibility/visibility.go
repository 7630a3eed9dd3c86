// Package visibility decides which content a reader gets to see. A reader sees
// approved publisher articles of the publishers they subscribe to and approved
// independent articles of the journalists they subscribe to. Newsletters follow
// the same rule without the approval requirement.
package visibility

import (
	"strings"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Options narrows a visibility query. Query is matched case-insensitively
// against the title and the author's username, first and last name. A zero
// Limit means no limit.
type Options struct {
	Query  string
	Limit  int
	Offset int
}

func subscribedPublishers(db *gorm.DB, readerID string) *gorm.DB {
	return db.Table("reader_publisher_subscriptions").Select("publisher_id").Where("user_id = ?", readerID)
}

func subscribedJournalists(db *gorm.DB, readerID string) *gorm.DB {
	return db.Table("reader_journalist_subscriptions").Select("journalist_id").Where("reader_id = ?", readerID)
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func (o Options) paginate(tx *gorm.DB) *gorm.DB {
	if o.Limit > 0 {
		tx = tx.Limit(o.Limit)
	}
	if o.Offset > 0 {
		tx = tx.Offset(o.Offset)
	}
	return tx
}

// Articles returns every article visible to reader, newest first.
func Articles(db *gorm.DB, reader *model.User, opts Options) ([]model.Article, error) {
	res := []model.Article{}
	if !reader.Role.CanSubscribe() {
		return res, nil
	}

	session := db.Session(&gorm.Session{NewDB: true})
	tx := db.Model(&model.Article{}).
		Where("articles.is_approved = ?", true).
		Where(session.
			Where("articles.is_independent = ? AND articles.publisher_id IN (?)", false, subscribedPublishers(session, reader.Id)).
			Or("articles.is_independent = ? AND articles.author_id IN (?)", true, subscribedJournalists(session, reader.Id)))

	if q := strings.TrimSpace(opts.Query); q != "" {
		p := likePattern(q)
		tx = tx.Joins("LEFT JOIN users AS authors ON authors.id = articles.author_id").
			Where("LOWER(articles.title) LIKE ? OR LOWER(authors.username) LIKE ? OR LOWER(authors.first_name) LIKE ? OR LOWER(authors.last_name) LIKE ?", p, p, p, p)
	}

	err := opts.paginate(tx).
		Preload("Author").
		Preload("Publisher").
		Order("articles.created_at DESC").
		Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query visible articles")
	}
	return res, nil
}

// Newsletters returns every newsletter visible to reader, newest first.
func Newsletters(db *gorm.DB, reader *model.User, opts Options) ([]model.Newsletter, error) {
	res := []model.Newsletter{}
	if !reader.Role.CanSubscribe() {
		return res, nil
	}

	session := db.Session(&gorm.Session{NewDB: true})
	tx := db.Model(&model.Newsletter{}).
		Where(session.
			Where("newsletters.is_independent = ? AND newsletters.publisher_id IN (?)", false, subscribedPublishers(session, reader.Id)).
			Or("newsletters.is_independent = ? AND newsletters.journalist_id IN (?)", true, subscribedJournalists(session, reader.Id)))

	if q := strings.TrimSpace(opts.Query); q != "" {
		p := likePattern(q)
		tx = tx.Joins("LEFT JOIN users AS journalists ON journalists.id = newsletters.journalist_id").
			Where("LOWER(newsletters.title) LIKE ? OR LOWER(journalists.username) LIKE ? OR LOWER(journalists.first_name) LIKE ? OR LOWER(journalists.last_name) LIKE ?", p, p, p, p)
	}

	err := opts.paginate(tx).
		Preload("Journalist").
		Preload("Publisher").
		Preload("Articles").
		Order("newsletters.created_at DESC").
		Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query visible newsletters")
	}
	return res, nil
}

// Article returns a single visible article, gorm.ErrRecordNotFound when the
// article does not exist or the reader may not see it.
func Article(db *gorm.DB, reader *model.User, id string) (*model.Article, error) {
	var article model.Article
	if err := db.Preload("Author").Preload("Publisher").First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	visible, err := ArticleVisibleTo(db, &article, reader)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, gorm.ErrRecordNotFound
	}
	return &article, nil
}

// Newsletter is the newsletter counterpart of Article.
func Newsletter(db *gorm.DB, reader *model.User, id string) (*model.Newsletter, error) {
	var newsletter model.Newsletter
	if err := db.Preload("Journalist").Preload("Publisher").Preload("Articles.Author").First(&newsletter, "id = ?", id).Error; err != nil {
		return nil, err
	}
	subs, err := loadSubscriptions(db, reader)
	if err != nil {
		return nil, err
	}
	if !subs.matches(newsletter.IsIndependent, newsletter.PublisherID, newsletter.JournalistID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &newsletter, nil
}

// ArticleVisibleTo evaluates the visibility rule for a single article.
func ArticleVisibleTo(db *gorm.DB, article *model.Article, reader *model.User) (bool, error) {
	if !article.IsApproved || !reader.Role.CanSubscribe() {
		return false, nil
	}
	subs, err := loadSubscriptions(db, reader)
	if err != nil {
		return false, err
	}
	return subs.matches(article.IsIndependent, article.PublisherID, article.AuthorID), nil
}

type subscriptions struct {
	publishers  map[string]bool
	journalists map[string]bool
}

func loadSubscriptions(db *gorm.DB, reader *model.User) (*subscriptions, error) {
	var publisherIDs, journalistIDs []string
	if err := subscribedPublishers(db.Session(&gorm.Session{NewDB: true}), reader.Id).Pluck("publisher_id", &publisherIDs).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load publisher subscriptions")
	}
	if err := subscribedJournalists(db.Session(&gorm.Session{NewDB: true}), reader.Id).Pluck("journalist_id", &journalistIDs).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load journalist subscriptions")
	}
	subs := &subscriptions{publishers: map[string]bool{}, journalists: map[string]bool{}}
	for _, id := range publisherIDs {
		subs.publishers[id] = true
	}
	for _, id := range journalistIDs {
		subs.journalists[id] = true
	}
	return subs, nil
}

func (s *subscriptions) matches(independent bool, publisherID, authorID *string) bool {
	if independent {
		return authorID != nil && s.journalists[*authorID]
	}
	return publisherID != nil && s.publishers[*publisherID]
}
