package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/content"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/server/middlewares"
	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type userRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type userView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	IsManager bool       `json:"is_manager"`
}

type publisherRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type articleView struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Author        string     `json:"author"`
	IsIndependent bool       `json:"is_independant"`
	PublisherID   *string    `json:"publisher_id"`
	Publisher     string     `json:"publisher"`
	IsApproved    bool       `json:"is_approved"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DateEdited    *time.Time `json:"date_edited"`
	DatePublished *time.Time `json:"date_published"`
}

type newsletterView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Journalist    string        `json:"journalist"`
	IsIndependent bool          `json:"is_independant"`
	PublisherID   *string       `json:"publisher_id"`
	Publisher     string        `json:"publisher"`
	Articles      []articleView `json:"articles"`
	CreatedAt     time.Time     `json:"created_at"`
}

type publisherView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Journalists []userRef `json:"journalists"`
	Editors     []userRef `json:"editors"`
}

type subscriptionsView struct {
	Publishers  []publisherRef `json:"reader_publisher_subscriptions"`
	Journalists []userRef      `json:"reader_journalist_subscriptions"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:        u.Id,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		IsManager: u.IsManager,
	}
}

func newUserRefs(users []*model.User) []userRef {
	res := make([]userRef, 0, len(users))
	for _, u := range users {
		res = append(res, userRef{ID: u.Id, Username: u.Username})
	}
	return res
}

func newArticleView(a *model.Article) articleView {
	v := articleView{
		ID:            a.Id,
		Title:         a.Title,
		Content:       a.Content,
		Author:        a.AuthorUsername(),
		IsIndependent: a.IsIndependent,
		PublisherID:   a.PublisherID,
		Publisher:     a.PublisherName(),
		IsApproved:    a.IsApproved,
		CreatedAt:     a.CreatedAt,
		DateEdited:    a.DateEdited,
		DatePublished: a.DatePublished,
	}
	if a.ApprovedBy != nil {
		v.ApprovedBy = a.ApprovedBy.Username
	}
	return v
}

func newArticleViews(articles []model.Article) []articleView {
	res := make([]articleView, 0, len(articles))
	for i := range articles {
		res = append(res, newArticleView(&articles[i]))
	}
	return res
}

func newNewsletterView(n *model.Newsletter) newsletterView {
	v := newsletterView{
		ID:            n.Id,
		Title:         n.Title,
		IsIndependent: n.IsIndependent,
		PublisherID:   n.PublisherID,
		Articles:      make([]articleView, 0, len(n.Articles)),
		CreatedAt:     n.CreatedAt,
	}
	if n.Journalist != nil {
		v.Journalist = n.Journalist.Username
	}
	if n.Publisher != nil {
		v.Publisher = n.Publisher.Name
	}
	for _, a := range n.Articles {
		v.Articles = append(v.Articles, newArticleView(a))
	}
	return v
}

func newNewsletterViews(newsletters []model.Newsletter) []newsletterView {
	res := make([]newsletterView, 0, len(newsletters))
	for i := range newsletters {
		res = append(res, newNewsletterView(&newsletters[i]))
	}
	return res
}

func newPublisherView(p *model.Publisher) publisherView {
	return publisherView{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Journalists: newUserRefs(p.Journalists),
		Editors:     newUserRefs(p.Editors),
	}
}

func newPublisherRefs(publishers []model.Publisher) []publisherRef {
	res := make([]publisherRef, 0, len(publishers))
	for _, p := range publishers {
		res = append(res, publisherRef{ID: p.Id, Name: p.Name})
	}
	return res
}

func newSubscriptionsView(reader *model.User) subscriptionsView {
	v := subscriptionsView{
		Publishers:  make([]publisherRef, 0, len(reader.PublisherSubscriptions)),
		Journalists: newUserRefs(reader.JournalistSubscriptions),
	}
	for _, p := range reader.PublisherSubscriptions {
		v.Publishers = append(v.Publishers, publisherRef{ID: p.Id, Name: p.Name})
	}
	return v
}

func badRequest(c *gin.Context, messages ...string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": messages})
}

// respondError renders err with the status its kind maps to. Anything
// unexpected is logged and reported as 500.
func respondError(c *gin.Context, err error) {
	var validation *forms.ValidationError
	switch {
	case errors.As(err, &validation):
		badRequest(c, validation.Messages...)
	case errors.Is(err, content.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, content.ErrDuplicatePublisher):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, accounts.ErrUsernameTaken), errors.Is(err, accounts.ErrEmailTaken):
		badRequest(c, err.Error())
	case errors.Is(err, accounts.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		Logger.Log.WithField("path", c.FullPath()).Errorf("request failed: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON decodes the request body into form, a malformed body is a
// validation error.
func bindJSON(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		badRequest(c, "Malformed request body.")
		return false
	}
	return true
}

func currentUser(c *gin.Context) *model.User {
	return middlewares.CurrentUser(c)
}
