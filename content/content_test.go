package content

import (
	"testing"

	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type newsroom struct {
	db         *gorm.DB
	journalist *model.User
	editor     *model.User
	outsider   *model.User
	planet     *model.Publisher
	sentinel   *model.Publisher
}

func setupNewsroom(t *testing.T) *newsroom {
	db, _ := utils.CreateTempDB(t)
	n := &newsroom{db: db}
	n.journalist = utils.TestCreateUserAndValidate(t, db, "kent", model.RoleJournalist)
	n.editor = utils.TestCreateUserAndValidate(t, db, "perry", model.RoleEditor)
	n.outsider = utils.TestCreateUserAndValidate(t, db, "morgan", model.RoleEditor)
	n.planet = utils.TestCreatePublisherAndValidate(t, db, "Planet", []*model.User{n.journalist}, []*model.User{n.editor})
	n.sentinel = utils.TestCreatePublisherAndValidate(t, db, "Sentinel", nil, []*model.User{n.outsider})
	return n
}

func TestIndependentArticleAttachedToPublisherGoesBackToReview(t *testing.T) {
	n := setupNewsroom(t)

	create := forms.ArticleForm{Title: "X", Content: "story", IsIndependent: true}
	require.NoError(t, create.Validate(n.db, n.journalist, nil))
	article, err := CreateArticle(n.db, n.journalist, &create)
	require.NoError(t, err)
	assert.True(t, article.IsIndependent)
	assert.False(t, article.IsApproved)
	assert.Nil(t, article.PublisherID)

	loaded, err := GetArticle(n.db, n.journalist, model.RoleJournalist, article.Id)
	require.NoError(t, err)
	loaded.IsApproved = true
	require.NoError(t, n.db.Model(loaded).Update("is_approved", true).Error)

	update := forms.ArticleForm{Title: "X", Content: "story", IsApproved: true, PublisherID: &n.planet.Id}
	require.NoError(t, update.Validate(n.db, n.journalist, loaded))
	previous, err := UpdateArticleAsJournalist(n.db, loaded, &update)
	require.NoError(t, err)
	assert.True(t, previous)

	reloaded, err := GetArticle(n.db, n.journalist, model.RoleJournalist, article.Id)
	require.NoError(t, err)
	assert.False(t, reloaded.IsIndependent)
	assert.False(t, reloaded.IsApproved)
	require.NotNil(t, reloaded.PublisherID)
	assert.Equal(t, n.planet.Id, *reloaded.PublisherID)
	assert.NotNil(t, reloaded.DateEdited)
}

func TestAffiliatedArticleNeverStartsApproved(t *testing.T) {
	n := setupNewsroom(t)

	f := forms.ArticleForm{Title: "Z", Content: "story", IsApproved: true, PublisherID: &n.planet.Id}
	article, err := CreateArticle(n.db, n.journalist, &f)
	require.NoError(t, err)
	assert.False(t, article.IsApproved)

	solo := forms.ArticleForm{Title: "solo", Content: "story", IsApproved: true, IsIndependent: true}
	article, err = CreateArticle(n.db, n.journalist, &solo)
	require.NoError(t, err)
	assert.True(t, article.IsApproved)
}

func TestEditorScopeHidesOtherPublishers(t *testing.T) {
	n := setupNewsroom(t)
	article := utils.TestCreateArticleAndValidate(t, n.db, "Z", n.journalist, n.planet, false)
	utils.TestCreateArticleAndValidate(t, n.db, "solo", n.journalist, nil, true)

	got, err := GetArticle(n.db, n.editor, model.RoleEditor, article.Id)
	require.NoError(t, err)
	assert.Equal(t, "Planet", got.PublisherName())

	_, err = GetArticle(n.db, n.outsider, model.RoleEditor, article.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	// acting under a role the user does not hold owns nothing
	_, err = GetArticle(n.db, n.editor, model.RoleJournalist, article.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := ListArticles(n.db, n.editor, model.RoleEditor, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, article.Id, listed[0].Id)

	listed, err = ListArticles(n.db, n.outsider, model.RoleEditor, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestJournalistListSearch(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestCreateArticleAndValidate(t, n.db, "Markets", n.journalist, n.planet, false)
	utils.TestCreateArticleAndValidate(t, n.db, "Weather", n.journalist, nil, false)

	res, err := ListArticles(n.db, n.journalist, model.RoleJournalist, "planet")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Markets", res[0].Title)

	res, err = ListArticles(n.db, n.journalist, model.RoleJournalist, "weather content")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Weather", res[0].Title)
}

func TestReviewArticleTracksApprover(t *testing.T) {
	n := setupNewsroom(t)
	article := utils.TestCreateArticleAndValidate(t, n.db, "Z", n.journalist, n.planet, false)

	loaded, err := GetArticle(n.db, n.editor, model.RoleEditor, article.Id)
	require.NoError(t, err)
	previous, err := ReviewArticle(n.db, n.editor, loaded, &forms.EditorArticleForm{IsApproved: true})
	require.NoError(t, err)
	assert.False(t, previous)

	loaded, err = GetArticle(n.db, n.editor, model.RoleEditor, article.Id)
	require.NoError(t, err)
	assert.True(t, loaded.IsApproved)
	require.NotNil(t, loaded.ApprovedBy)
	assert.Equal(t, "perry", loaded.ApprovedBy.Username)
	assert.NotNil(t, loaded.DatePublished)
	assert.True(t, loaded.IsApproved)
	assert.False(t, loaded.IsIndependent)

	previous, err = ReviewArticle(n.db, n.editor, loaded, &forms.EditorArticleForm{IsApproved: false})
	require.NoError(t, err)
	assert.True(t, previous)
	loaded, err = GetArticle(n.db, n.editor, model.RoleEditor, article.Id)
	require.NoError(t, err)
	assert.False(t, loaded.IsApproved)
	assert.Nil(t, loaded.ApprovedByID)
}

func TestDeleteArticleLeavesNewsletter(t *testing.T) {
	n := setupNewsroom(t)
	article := utils.TestCreateArticleAndValidate(t, n.db, "Z", n.journalist, n.planet, true)
	newsletter := utils.TestCreateNewsletterAndValidate(t, n.db, "weekly", n.journalist, n.planet, []*model.Article{article})

	require.NoError(t, DeleteArticle(n.db, article))

	got, err := GetNewsletter(n.db, n.journalist, model.RoleJournalist, newsletter.Id)
	require.NoError(t, err)
	assert.Empty(t, got.Articles)
}

func TestNewsletterLifecycle(t *testing.T) {
	n := setupNewsroom(t)
	approved := utils.TestCreateArticleAndValidate(t, n.db, "approved", n.journalist, n.planet, true)
	mine := utils.TestCreateArticleAndValidate(t, n.db, "mine", n.journalist, nil, false)

	f := forms.NewsletterForm{Title: "weekly", PublisherID: &n.planet.Id, ArticleIDs: []string{approved.Id}}
	require.NoError(t, f.Validate(n.db, n.journalist, nil))
	newsletter, err := CreateNewsletter(n.db, n.journalist, &f)
	require.NoError(t, err)

	got, err := GetNewsletter(n.db, n.editor, model.RoleEditor, newsletter.Id)
	require.NoError(t, err)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "kent", got.Articles[0].AuthorUsername())

	_, err = GetNewsletter(n.db, n.outsider, model.RoleEditor, newsletter.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	editorForm := forms.EditorNewsletterForm{Title: "renamed"}
	require.NoError(t, editorForm.Validate(n.db, got))
	require.NoError(t, UpdateNewsletterAsEditor(n.db, got, &editorForm))

	got, err = GetNewsletter(n.db, n.journalist, model.RoleJournalist, newsletter.Id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Empty(t, got.Articles)
	require.NotNil(t, got.PublisherID)

	solo := forms.NewsletterForm{Title: "solo", IsIndependent: true, PublisherID: &n.planet.Id, ArticleIDs: []string{mine.Id}}
	require.NoError(t, solo.Validate(n.db, n.journalist, got))
	require.NoError(t, UpdateNewsletterAsJournalist(n.db, got, &solo))

	got, err = GetNewsletter(n.db, n.journalist, model.RoleJournalist, newsletter.Id)
	require.NoError(t, err)
	assert.True(t, got.IsIndependent)
	assert.Nil(t, got.PublisherID)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, mine.Id, got.Articles[0].Id)

	listed, err := ListNewsletters(n.db, n.journalist, model.RoleJournalist, "SOLO")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, DeleteNewsletter(n.db, got))
	_, err = GetNewsletter(n.db, n.journalist, model.RoleJournalist, newsletter.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublisherNamesAreUnique(t *testing.T) {
	n := setupNewsroom(t)

	f := forms.PublisherForm{Name: "Planet"}
	_, err := CreatePublisher(n.db, &f)
	assert.ErrorIs(t, err, ErrDuplicatePublisher)

	f = forms.PublisherForm{Name: "Gazette", Description: "daily", JournalistIDs: []string{n.journalist.Id}, EditorIDs: []string{n.editor.Id}}
	gazette, err := CreatePublisher(n.db, &f)
	require.NoError(t, err)
	require.Len(t, gazette.Journalists, 1)
	require.Len(t, gazette.Editors, 1)

	rename := forms.PublisherForm{Name: "Sentinel"}
	_, err = UpdatePublisher(n.db, gazette, &rename)
	assert.ErrorIs(t, err, ErrDuplicatePublisher)

	// keeping its own name is not a collision
	same := forms.PublisherForm{Name: "Gazette", Description: "weekly"}
	updated, err := UpdatePublisher(n.db, gazette, &same)
	require.NoError(t, err)
	assert.Equal(t, "weekly", updated.Description)
	assert.Empty(t, updated.Journalists)

	listed, err := ListPublishers(n.db, "week")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Gazette", listed[0].Name)
}

func TestDeletePublisherDetachesContent(t *testing.T) {
	n := setupNewsroom(t)
	reader := utils.TestCreateUserAndValidate(t, n.db, "reader", model.RoleReader)
	utils.TestSubscribe(t, n.db, reader, []*model.Publisher{n.planet}, nil)
	article := utils.TestCreateArticleAndValidate(t, n.db, "Z", n.journalist, n.planet, true)
	newsletter := utils.TestCreateNewsletterAndValidate(t, n.db, "weekly", n.journalist, n.planet, nil)

	require.NoError(t, DeletePublisher(n.db, n.planet))

	_, err := GetPublisher(n.db, n.planet.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := GetArticle(n.db, n.journalist, model.RoleJournalist, article.Id)
	require.NoError(t, err)
	assert.Nil(t, got.PublisherID)

	nl, err := GetNewsletter(n.db, n.journalist, model.RoleJournalist, newsletter.Id)
	require.NoError(t, err)
	assert.Nil(t, nl.PublisherID)

	subs, err := GetSubscriptions(n.db, reader)
	require.NoError(t, err)
	assert.Empty(t, subs.PublisherSubscriptions)
}

func TestSetSubscriptions(t *testing.T) {
	n := setupNewsroom(t)
	reader := utils.TestCreateUserAndValidate(t, n.db, "reader", model.RoleReader)

	f := forms.SubscriptionForm{PublisherIDs: []string{n.planet.Id, n.sentinel.Id}, JournalistIDs: []string{n.journalist.Id}}
	require.NoError(t, f.Validate(n.db))
	subs, err := SetSubscriptions(n.db, reader, &f)
	require.NoError(t, err)
	require.Len(t, subs.PublisherSubscriptions, 2)
	assert.Equal(t, "Planet", subs.PublisherSubscriptions[0].Name)
	require.Len(t, subs.JournalistSubscriptions, 1)
	assert.Equal(t, "kent", subs.JournalistSubscriptions[0].Username)

	f = forms.SubscriptionForm{PublisherIDs: []string{n.sentinel.Id}}
	subs, err = SetSubscriptions(n.db, reader, &f)
	require.NoError(t, err)
	require.Len(t, subs.PublisherSubscriptions, 1)
	assert.Empty(t, subs.JournalistSubscriptions)

	_, err = SetSubscriptions(n.db, n.journalist, &f)
	assert.ErrorIs(t, err, ErrNotFound)

	publishers, journalists, err := SubscriptionChoices(n.db)
	require.NoError(t, err)
	assert.Len(t, publishers, 2)
	assert.Len(t, journalists, 1)
}
