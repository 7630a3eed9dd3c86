package server

import (
	"net/http"

	"github.com/Luismorlan/newsdesk/content"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/gin-gonic/gin"
)

// Editors only touch the approval flag of articles and the title and articles
// of newsletters. Everything is scoped to the publishers they edit.
func (s *Server) registerEditorRoutes(g *gin.RouterGroup) {
	g.GET("/articles", s.editorArticles)
	g.GET("/articles/:id", s.editorArticle)
	g.PUT("/articles/:id", s.reviewArticle)
	g.DELETE("/articles/:id", s.editorDeleteArticle)

	g.GET("/newsletters", s.editorNewsletters)
	g.GET("/newsletters/:id", s.editorNewsletter)
	g.GET("/newsletters/:id/choices", s.editorNewsletterChoices)
	g.PUT("/newsletters/:id", s.editorUpdateNewsletter)
	g.DELETE("/newsletters/:id", s.editorDeleteNewsletter)
}

func (s *Server) editorArticles(c *gin.Context) {
	articles, err := content.ListArticles(s.DB, currentUser(c), model.RoleEditor, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": newArticleViews(articles)})
}

func (s *Server) editorArticle(c *gin.Context) {
	s.respondArticle(c, http.StatusOK, currentUser(c), model.RoleEditor, c.Param("id"))
}

// reviewArticle persists the approval flag first, the notification fan-out
// runs afterwards and never changes the response.
func (s *Server) reviewArticle(c *gin.Context) {
	user := currentUser(c)
	article, err := content.GetArticle(s.DB, user, model.RoleEditor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var form forms.EditorArticleForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err)
		return
	}
	previous, err := content.ReviewArticle(s.DB, user, article, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	s.Pipeline.ArticleSaved(c.Request.Context(), previous, article)
	s.respondArticle(c, http.StatusOK, user, model.RoleEditor, article.Id)
}

func (s *Server) editorDeleteArticle(c *gin.Context) {
	s.deleteArticle(c, model.RoleEditor)
}

func (s *Server) editorNewsletters(c *gin.Context) {
	s.listNewsletters(c, model.RoleEditor)
}

func (s *Server) editorNewsletter(c *gin.Context) {
	s.respondNewsletter(c, http.StatusOK, model.RoleEditor, c.Param("id"))
}

func (s *Server) editorNewsletterChoices(c *gin.Context) {
	newsletter, err := content.GetNewsletter(s.DB, currentUser(c), model.RoleEditor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	articles, err := forms.EditorNewsletterArticleChoices(s.DB, newsletter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": newArticleViews(articles)})
}

func (s *Server) editorUpdateNewsletter(c *gin.Context) {
	newsletter, err := content.GetNewsletter(s.DB, currentUser(c), model.RoleEditor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var form forms.EditorNewsletterForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB, newsletter); err != nil {
		respondError(c, err)
		return
	}
	if err := content.UpdateNewsletterAsEditor(s.DB, newsletter, &form); err != nil {
		respondError(c, err)
		return
	}
	s.respondNewsletter(c, http.StatusOK, model.RoleEditor, newsletter.Id)
}

func (s *Server) editorDeleteNewsletter(c *gin.Context) {
	s.deleteNewsletter(c, model.RoleEditor)
}
