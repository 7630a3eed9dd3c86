package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/newsdesk/content"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/utils"
	"github.com/Luismorlan/newsdesk/visibility"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

func (s *Server) registerReaderRoutes(g *gin.RouterGroup) {
	g.GET("/articles", s.readerArticles)
	g.GET("/view-article/:id/", s.readerArticle)
	g.GET("/newsletters", s.readerNewsletters)
	g.GET("/newsletters/:id", s.readerNewsletter)
	g.GET("/subscriptions", s.getSubscriptions)
	g.GET("/subscriptions/choices", s.subscriptionChoices)
	g.PUT("/subscriptions", s.setSubscriptions)
}

// pageOptions reads ?q=&limit=&offset=, limit defaults to 100 and is capped
// at 500.
func pageOptions(c *gin.Context) visibility.Options {
	limit := utils.ParseIntOrDefault(c.Query("limit"), defaultPageSize)
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return visibility.Options{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: utils.ParseIntOrDefault(c.Query("offset"), 0),
	}
}

func (s *Server) readerArticles(c *gin.Context) {
	articles, err := visibility.Articles(s.DB, currentUser(c), pageOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": newArticleViews(articles)})
}

func (s *Server) readerArticle(c *gin.Context) {
	article, err := visibility.Article(s.DB, currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": newArticleView(article)})
}

func (s *Server) readerNewsletters(c *gin.Context) {
	newsletters, err := visibility.Newsletters(s.DB, currentUser(c), pageOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newsletters": newNewsletterViews(newsletters)})
}

func (s *Server) readerNewsletter(c *gin.Context) {
	newsletter, err := visibility.Newsletter(s.DB, currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newsletter": newNewsletterView(newsletter)})
}

func (s *Server) getSubscriptions(c *gin.Context) {
	reader, err := content.GetSubscriptions(s.DB, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubscriptionsView(reader))
}

func (s *Server) subscriptionChoices(c *gin.Context) {
	publishers, journalists, err := content.SubscriptionChoices(s.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"publishers":  newPublisherRefs(publishers),
		"journalists": usersToRefs(journalists),
	})
}

func (s *Server) setSubscriptions(c *gin.Context) {
	var form forms.SubscriptionForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB); err != nil {
		respondError(c, err)
		return
	}
	reader, err := content.SetSubscriptions(s.DB, currentUser(c), &form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubscriptionsView(reader))
}

type apiArticle struct {
	MadeByJournalist *string   `json:"made_by_journalist"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	IsIndependent    bool      `json:"is_independant"`
	Publisher        *string   `json:"publisher"`
	IsApproved       bool      `json:"is_approved"`
	CreatedAt        time.Time `json:"created_at"`
}

type apiSubscriptions struct {
	Journalists []string `json:"reader_journalist_subscriptions"`
	Publishers  []string `json:"reader_publisher_subscriptions"`
}

// The read API is the external JSON surface, it never mutates anything.
func (s *Server) registerAPIRoutes(g *gin.RouterGroup) {
	g.GET("/articles/", s.apiArticles)
	g.GET("/my-subscriptions/", s.apiSubscriptions)
}

func (s *Server) apiArticles(c *gin.Context) {
	articles, err := visibility.Articles(s.DB, currentUser(c), visibility.Options{})
	if err != nil {
		respondError(c, err)
		return
	}
	res := make([]apiArticle, 0, len(articles))
	for _, a := range articles {
		item := apiArticle{
			Title:         a.Title,
			Content:       a.Content,
			IsIndependent: a.IsIndependent,
			IsApproved:    a.IsApproved,
			CreatedAt:     a.CreatedAt,
		}
		if a.Author != nil {
			item.MadeByJournalist = &a.Author.Username
		}
		if a.Publisher != nil {
			item.Publisher = &a.Publisher.Name
		}
		res = append(res, item)
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) apiSubscriptions(c *gin.Context) {
	reader, err := content.GetSubscriptions(s.DB, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	item := apiSubscriptions{
		Journalists: make([]string, 0, len(reader.JournalistSubscriptions)),
		Publishers:  make([]string, 0, len(reader.PublisherSubscriptions)),
	}
	for _, j := range reader.JournalistSubscriptions {
		item.Journalists = append(item.Journalists, j.Username)
	}
	for _, p := range reader.PublisherSubscriptions {
		item.Publishers = append(item.Publishers, p.Name)
	}
	c.JSON(http.StatusOK, []apiSubscriptions{item})
}
