package visibility

import (
	"testing"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type newsroom struct {
	db         *gorm.DB
	reader     *model.User
	journalist *model.User
	other      *model.User
	publisher  *model.Publisher
	unfollowed *model.Publisher
}

func setupNewsroom(t *testing.T) *newsroom {
	db, _ := utils.CreateTempDB(t)
	n := &newsroom{db: db}
	n.reader = utils.TestCreateUserAndValidate(t, db, "reader", model.RoleReader)
	n.journalist = utils.TestCreateUserAndValidate(t, db, "kent", model.RoleJournalist)
	n.other = utils.TestCreateUserAndValidate(t, db, "lois", model.RoleJournalist)
	n.publisher = utils.TestCreatePublisherAndValidate(t, db, "Planet", []*model.User{n.journalist, n.other}, nil)
	n.unfollowed = utils.TestCreatePublisherAndValidate(t, db, "Sentinel", []*model.User{n.other}, nil)
	return n
}

func titles(articles []model.Article) []string {
	res := []string{}
	for _, a := range articles {
		res = append(res, a.Title)
	}
	return res
}

func TestReaderWithoutSubscriptionsSeesNothing(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestCreateArticleAndValidate(t, n.db, "affiliated", n.journalist, n.publisher, true)
	utils.TestCreateArticleAndValidate(t, n.db, "independent", n.journalist, nil, true)

	articles, err := Articles(n.db, n.reader, Options{})
	require.NoError(t, err)
	assert.Empty(t, articles)

	newsletters, err := Newsletters(n.db, n.reader, Options{})
	require.NoError(t, err)
	assert.Empty(t, newsletters)
}

func TestPublisherSubscriptionOnlyShowsApprovedAffiliatedArticles(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, nil)

	utils.TestCreateArticleAndValidate(t, n.db, "Y", n.other, nil, true)
	utils.TestCreateArticleAndValidate(t, n.db, "Z", n.journalist, n.publisher, true)
	utils.TestCreateArticleAndValidate(t, n.db, "draft", n.journalist, n.publisher, false)
	utils.TestCreateArticleAndValidate(t, n.db, "elsewhere", n.other, n.unfollowed, true)

	articles, err := Articles(n.db, n.reader, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Z"}, titles(articles))
	require.NotNil(t, articles[0].Author)
	assert.Equal(t, "kent", articles[0].AuthorUsername())
	assert.Equal(t, "Planet", articles[0].PublisherName())
}

func TestJournalistSubscriptionShowsApprovedIndependentArticles(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, nil, []*model.User{n.journalist})

	utils.TestCreateArticleAndValidate(t, n.db, "solo", n.journalist, nil, true)
	utils.TestCreateArticleAndValidate(t, n.db, "solo draft", n.journalist, nil, false)
	// affiliated articles are not reached through a journalist subscription
	utils.TestCreateArticleAndValidate(t, n.db, "for planet", n.journalist, n.publisher, true)
	utils.TestCreateArticleAndValidate(t, n.db, "someone else", n.other, nil, true)

	articles, err := Articles(n.db, n.reader, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, titles(articles))
}

func TestArticlesAreNewestFirstAndDuplicateFree(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, []*model.User{n.journalist})

	utils.TestCreateArticleAndValidate(t, n.db, "first", n.journalist, n.publisher, true)
	utils.TestCreateArticleAndValidate(t, n.db, "second", n.journalist, nil, true)
	utils.TestCreateArticleAndValidate(t, n.db, "third", n.journalist, n.publisher, true)

	articles, err := Articles(n.db, n.reader, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, titles(articles))

	page, err := Articles(n.db, n.reader, Options{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, titles(page))
}

func TestQueryNarrowsByTitleAndAuthor(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, nil)

	utils.TestCreateArticleAndValidate(t, n.db, "Markets Rally", n.journalist, n.publisher, true)
	utils.TestCreateArticleAndValidate(t, n.db, "Weather", n.other, n.publisher, true)

	byTitle, err := Articles(n.db, n.reader, Options{Query: "market"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Markets Rally"}, titles(byTitle))

	byAuthor, err := Articles(n.db, n.reader, Options{Query: "LOIS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Weather"}, titles(byAuthor))

	byLastName, err := Articles(n.db, n.reader, Options{Query: "kent-last"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Markets Rally"}, titles(byLastName))
}

func TestNewslettersIgnoreApproval(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, []*model.User{n.other})

	a := utils.TestCreateArticleAndValidate(t, n.db, "a", n.journalist, n.publisher, true)
	utils.TestCreateNewsletterAndValidate(t, n.db, "weekly", n.journalist, n.publisher, []*model.Article{a})
	utils.TestCreateNewsletterAndValidate(t, n.db, "lois picks", n.other, nil, nil)
	utils.TestCreateNewsletterAndValidate(t, n.db, "kent picks", n.journalist, nil, nil)
	utils.TestCreateNewsletterAndValidate(t, n.db, "sentinel", n.other, n.unfollowed, nil)

	newsletters, err := Newsletters(n.db, n.reader, Options{})
	require.NoError(t, err)
	res := []string{}
	for _, nl := range newsletters {
		res = append(res, nl.Title)
	}
	assert.Equal(t, []string{"lois picks", "weekly"}, res)
	assert.Len(t, newsletters[1].Articles, 1)

	filtered, err := Newsletters(n.db, n.reader, Options{Query: "week"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "weekly", filtered[0].Title)
}

func TestNonReadersSeeNothing(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestCreateArticleAndValidate(t, n.db, "a", n.journalist, n.publisher, true)

	articles, err := Articles(n.db, n.journalist, Options{})
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSingleLookupsHideInvisibleContent(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, nil)

	visible := utils.TestCreateArticleAndValidate(t, n.db, "visible", n.journalist, n.publisher, true)
	hidden := utils.TestCreateArticleAndValidate(t, n.db, "hidden", n.other, n.unfollowed, true)
	nl := utils.TestCreateNewsletterAndValidate(t, n.db, "hidden letter", n.other, n.unfollowed, nil)

	got, err := Article(n.db, n.reader, visible.Id)
	require.NoError(t, err)
	assert.Equal(t, visible.Id, got.Id)

	_, err = Article(n.db, n.reader, hidden.Id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = Newsletter(n.db, n.reader, nl.Id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// The SQL predicate and the in-memory predicate must agree on every article.
func TestArticleVisibleToMatchesQuery(t *testing.T) {
	n := setupNewsroom(t)
	utils.TestSubscribe(t, n.db, n.reader, []*model.Publisher{n.publisher}, []*model.User{n.other})

	var all []*model.Article
	for _, author := range []*model.User{n.journalist, n.other} {
		for _, publisher := range []*model.Publisher{nil, n.publisher, n.unfollowed} {
			for _, approved := range []bool{false, true} {
				all = append(all, utils.TestCreateArticleAndValidate(t, n.db, "x", author, publisher, approved))
			}
		}
	}

	listed, err := Articles(n.db, n.reader, Options{})
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, a := range listed {
		ids[a.Id] = true
	}

	for _, a := range all {
		visible, err := ArticleVisibleTo(n.db, a, n.reader)
		require.NoError(t, err)
		assert.Equal(t, ids[a.Id], visible, "article by %s publisher %v approved %v", *a.AuthorID, a.PublisherID, a.IsApproved)
	}
	// approved Planet articles by both authors plus lois' approved independent one
	assert.Len(t, listed, 3)
}
