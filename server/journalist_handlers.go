package server

import (
	"net/http"
	"strconv"

	"github.com/Luismorlan/newsdesk/content"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerJournalistRoutes(g *gin.RouterGroup) {
	g.GET("/articles", s.journalistArticles)
	g.GET("/articles/choices", s.journalistArticleChoices)
	g.POST("/articles", s.createArticle)
	g.GET("/articles/:id", s.journalistArticle)
	g.PUT("/articles/:id", s.updateArticle)
	g.DELETE("/articles/:id", s.journalistDeleteArticle)

	g.GET("/newsletters", s.journalistNewsletters)
	g.GET("/newsletters/choices", s.journalistNewsletterChoices)
	g.POST("/newsletters", s.createNewsletter)
	g.GET("/newsletters/:id", s.journalistNewsletter)
	g.PUT("/newsletters/:id", s.updateNewsletter)
	g.DELETE("/newsletters/:id", s.journalistDeleteNewsletter)
}

func (s *Server) journalistArticles(c *gin.Context) {
	articles, err := content.ListArticles(s.DB, currentUser(c), model.RoleJournalist, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": newArticleViews(articles)})
}

// journalistArticleChoices lists the selectable publishers. With ?article=<id>
// the current publisher of that article stays selectable.
func (s *Server) journalistArticleChoices(c *gin.Context) {
	user := currentUser(c)
	var current *string
	if id := c.Query("article"); id != "" {
		article, err := content.GetArticle(s.DB, user, model.RoleJournalist, id)
		if err != nil {
			respondError(c, err)
			return
		}
		current = article.PublisherID
	}
	publishers, err := forms.PublisherChoices(s.DB, user, current)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishers": newPublisherRefs(publishers)})
}

func (s *Server) createArticle(c *gin.Context) {
	user := currentUser(c)
	var form forms.ArticleForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB, user, nil); err != nil {
		respondError(c, err)
		return
	}
	article, err := content.CreateArticle(s.DB, user, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondArticle(c, http.StatusCreated, user, model.RoleJournalist, article.Id)
}

func (s *Server) respondArticle(c *gin.Context, status int, user *model.User, role model.Role, id string) {
	article, err := content.GetArticle(s.DB, user, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"article": newArticleView(article)})
}

func (s *Server) journalistArticle(c *gin.Context) {
	s.respondArticle(c, http.StatusOK, currentUser(c), model.RoleJournalist, c.Param("id"))
}

func (s *Server) updateArticle(c *gin.Context) {
	user := currentUser(c)
	article, err := content.GetArticle(s.DB, user, model.RoleJournalist, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var form forms.ArticleForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB, user, article); err != nil {
		respondError(c, err)
		return
	}
	previous, err := content.UpdateArticleAsJournalist(s.DB, article, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	s.Pipeline.ArticleSaved(c.Request.Context(), previous, article)
	s.respondArticle(c, http.StatusOK, user, model.RoleJournalist, article.Id)
}

func (s *Server) journalistDeleteArticle(c *gin.Context) {
	s.deleteArticle(c, model.RoleJournalist)
}

func (s *Server) deleteArticle(c *gin.Context, role model.Role) {
	article, err := content.GetArticle(s.DB, currentUser(c), role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := content.DeleteArticle(s.DB, article); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listNewsletters(c *gin.Context, role model.Role) {
	newsletters, err := content.ListNewsletters(s.DB, currentUser(c), role, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newsletters": newNewsletterViews(newsletters)})
}

func (s *Server) respondNewsletter(c *gin.Context, status int, role model.Role, id string) {
	newsletter, err := content.GetNewsletter(s.DB, currentUser(c), role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"newsletter": newNewsletterView(newsletter)})
}

func (s *Server) journalistNewsletters(c *gin.Context) {
	s.listNewsletters(c, model.RoleJournalist)
}

// journalistNewsletterChoices lists the selectable publishers and articles,
// ?independent=true switches to the journalist's own articles.
func (s *Server) journalistNewsletterChoices(c *gin.Context) {
	user := currentUser(c)
	independent, _ := strconv.ParseBool(c.Query("independent"))
	var current *string
	if id := c.Query("newsletter"); id != "" {
		newsletter, err := content.GetNewsletter(s.DB, user, model.RoleJournalist, id)
		if err != nil {
			respondError(c, err)
			return
		}
		current = newsletter.PublisherID
	}
	publishers, err := forms.PublisherChoices(s.DB, user, current)
	if err != nil {
		respondError(c, err)
		return
	}
	articles, err := forms.NewsletterArticleChoices(s.DB, user, independent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"publishers": newPublisherRefs(publishers),
		"articles":   newArticleViews(articles),
	})
}

func (s *Server) createNewsletter(c *gin.Context) {
	user := currentUser(c)
	var form forms.NewsletterForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB, user, nil); err != nil {
		respondError(c, err)
		return
	}
	newsletter, err := content.CreateNewsletter(s.DB, user, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondNewsletter(c, http.StatusCreated, model.RoleJournalist, newsletter.Id)
}

func (s *Server) journalistNewsletter(c *gin.Context) {
	s.respondNewsletter(c, http.StatusOK, model.RoleJournalist, c.Param("id"))
}

func (s *Server) updateNewsletter(c *gin.Context) {
	user := currentUser(c)
	newsletter, err := content.GetNewsletter(s.DB, user, model.RoleJournalist, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var form forms.NewsletterForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB, user, newsletter); err != nil {
		respondError(c, err)
		return
	}
	if err := content.UpdateNewsletterAsJournalist(s.DB, newsletter, &form); err != nil {
		respondError(c, err)
		return
	}
	s.respondNewsletter(c, http.StatusOK, model.RoleJournalist, newsletter.Id)
}

func (s *Server) journalistDeleteNewsletter(c *gin.Context) {
	s.deleteNewsletter(c, model.RoleJournalist)
}

func (s *Server) deleteNewsletter(c *gin.Context, role model.Role) {
	newsletter, err := content.GetNewsletter(s.DB, currentUser(c), role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := content.DeleteNewsletter(s.DB, newsletter); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
