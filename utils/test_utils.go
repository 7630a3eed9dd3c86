package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the clear text password of every user created by
// TestCreateUserAndValidate.
const TestPassword = "correct-horse-battery"

// create user with username and role, do sanity checks and returns it
func TestCreateUserAndValidate(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Username:     username,
		FirstName:    username + "-first",
		LastName:     username + "-last",
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotEmpty(t, user.Id)
	require.Equal(t, role, user.Role)
	return &user
}

// create publisher with journalists and editors affiliated, returns it
func TestCreatePublisherAndValidate(t *testing.T, db *gorm.DB, name string, journalists []*model.User, editors []*model.User) *model.Publisher {
	t.Helper()
	publisher := model.Publisher{
		Name:        name,
		Description: name + " description",
		Journalists: journalists,
		Editors:     editors,
	}
	require.NoError(t, db.Omit("Journalists.*", "Editors.*").Create(&publisher).Error)
	require.NotEmpty(t, publisher.Id)
	require.Equal(t, int64(len(journalists)), db.Model(&publisher).Association("Journalists").Count())
	require.Equal(t, int64(len(editors)), db.Model(&publisher).Association("Editors").Count())
	return &publisher
}

// create article authored by author, a nil publisher makes it independent
func TestCreateArticleAndValidate(t *testing.T, db *gorm.DB, title string, author *model.User, publisher *model.Publisher, approved bool) *model.Article {
	t.Helper()
	article := model.Article{
		Title:         title,
		Content:       title + " content",
		AuthorID:      &author.Id,
		IsIndependent: publisher == nil,
		IsApproved:    approved,
	}
	if publisher != nil {
		article.PublisherID = &publisher.Id
	}
	require.NoError(t, db.Create(&article).Error)
	require.NotEmpty(t, article.Id)
	// keep created_at strictly increasing so "newest first" is deterministic
	time.Sleep(2 * time.Millisecond)
	return &article
}

// create newsletter assembled by journalist, a nil publisher makes it independent
func TestCreateNewsletterAndValidate(t *testing.T, db *gorm.DB, title string, journalist *model.User, publisher *model.Publisher, articles []*model.Article) *model.Newsletter {
	t.Helper()
	newsletter := model.Newsletter{
		Title:         title,
		JournalistID:  &journalist.Id,
		IsIndependent: publisher == nil,
		Articles:      articles,
	}
	if publisher != nil {
		newsletter.PublisherID = &publisher.Id
	}
	require.NoError(t, db.Omit("Articles.*").Create(&newsletter).Error)
	require.NotEmpty(t, newsletter.Id)
	time.Sleep(2 * time.Millisecond)
	return &newsletter
}

// subscribe reader to publishers and journalists
func TestSubscribe(t *testing.T, db *gorm.DB, reader *model.User, publishers []*model.Publisher, journalists []*model.User) {
	t.Helper()
	if len(publishers) > 0 {
		require.NoError(t, db.Model(reader).Association("PublisherSubscriptions").Append(publishers))
	}
	if len(journalists) > 0 {
		require.NoError(t, db.Model(reader).Association("JournalistSubscriptions").Append(journalists))
	}
}
