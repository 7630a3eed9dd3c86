package server

import (
	"net/http"

	"github.com/Luismorlan/newsdesk/content"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerPublisherRoutes(g *gin.RouterGroup) {
	g.GET("", s.listPublishers)
	g.GET("/choices", s.publisherChoices)
	g.POST("", s.createPublisher)
	g.GET("/:id", s.getPublisher)
	g.PUT("/:id", s.updatePublisher)
	g.DELETE("/:id", s.deletePublisher)
}

func (s *Server) listPublishers(c *gin.Context) {
	publishers, err := content.ListPublishers(s.DB, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	res := make([]publisherView, 0, len(publishers))
	for i := range publishers {
		res = append(res, newPublisherView(&publishers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"publishers": res})
}

// publisherChoices lists the users that can be staffed on a publisher.
func (s *Server) publisherChoices(c *gin.Context) {
	journalists, err := forms.UsersWithRole(s.DB, model.RoleJournalist)
	if err != nil {
		respondError(c, err)
		return
	}
	editors, err := forms.UsersWithRole(s.DB, model.RoleEditor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"journalists": usersToRefs(journalists),
		"editors":     usersToRefs(editors),
	})
}

func usersToRefs(users []model.User) []userRef {
	res := make([]userRef, 0, len(users))
	for _, u := range users {
		res = append(res, userRef{ID: u.Id, Username: u.Username})
	}
	return res
}

func (s *Server) createPublisher(c *gin.Context) {
	var form forms.PublisherForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB); err != nil {
		respondError(c, err)
		return
	}
	publisher, err := content.CreatePublisher(s.DB, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"publisher": newPublisherView(publisher)})
}

func (s *Server) getPublisher(c *gin.Context) {
	publisher, err := content.GetPublisher(s.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publisher": newPublisherView(publisher)})
}

func (s *Server) updatePublisher(c *gin.Context) {
	publisher, err := content.GetPublisher(s.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var form forms.PublisherForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(s.DB); err != nil {
		respondError(c, err)
		return
	}
	updated, err := content.UpdatePublisher(s.DB, publisher, &form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publisher": newPublisherView(updated)})
}

func (s *Server) deletePublisher(c *gin.Context) {
	publisher, err := content.GetPublisher(s.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := content.DeletePublisher(s.DB, publisher); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
