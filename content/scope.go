// Package content is the role scoped persistence of articles, newsletters,
// publishers and reader subscriptions. Single object lookups always go through
// the scope of the acting role, so an object outside of it reads as missing.
package content

import (
	"strings"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicatePublisher = errors.New("a publisher with that name already exists")
)

// Scope restricts a query to the rows an actor owns.
type Scope func(db *gorm.DB) *gorm.DB

type roleScopes struct {
	article    func(user *model.User) Scope
	newsletter func(user *model.User) Scope
}

func editedPublishers(db *gorm.DB, editorID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("publisher_editors").Select("publisher_id").Where("user_id = ?", editorID)
}

var scopesByRole = map[model.Role]roleScopes{
	model.RoleJournalist: {
		article: func(user *model.User) Scope {
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("articles.author_id = ?", user.Id)
			}
		},
		newsletter: func(user *model.User) Scope {
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("newsletters.journalist_id = ?", user.Id)
			}
		},
	},
	model.RoleEditor: {
		article: func(user *model.User) Scope {
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("articles.publisher_id IN (?)", editedPublishers(db, user.Id))
			}
		},
		newsletter: func(user *model.User) Scope {
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("newsletters.publisher_id IN (?)", editedPublishers(db, user.Id))
			}
		},
	},
}

func nothing(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// ArticleScope is the set of articles user owns when acting as role. Roles
// without article ownership own nothing.
func ArticleScope(user *model.User, role model.Role) Scope {
	s, ok := scopesByRole[role]
	if !ok || !user.HasRole(role) {
		return nothing
	}
	return s.article(user)
}

// NewsletterScope is the newsletter counterpart of ArticleScope.
func NewsletterScope(user *model.User, role model.Role) Scope {
	s, ok := scopesByRole[role]
	if !ok || !user.HasRole(role) {
		return nothing
	}
	return s.newsletter(user)
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// notFound maps a missing row to ErrNotFound and wraps everything else.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "fail to load %s", what)
}
