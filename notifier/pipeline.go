// Package notifier announces approved articles to the readers of their
// publisher, by email and on a social channel. Delivery is best effort: every
// failure is logged and counted, none reaches the caller.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/newsdesk/clients"
	"github.com/Luismorlan/newsdesk/model"
	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	metricFanout      = "notifier.fanout"
	metricEmailSent   = "notifier.email.sent"
	metricEmailFailed = "notifier.email.failed"
	metricPostSent    = "notifier.post.sent"
	metricPostFailed  = "notifier.post.failed"
)

type Mailer interface {
	Send(ctx context.Context, email clients.Email) error
}

type Poster interface {
	Post(ctx context.Context, text string, mediaID string) (string, error)
}

// Pipeline is built once at start up and shared by every request.
type Pipeline struct {
	DB      *gorm.DB
	Mailer  Mailer
	Poster  Poster
	Metrics statsd.ClientInterface
	BaseURL string
	From    string
	// Timeout bounds a whole fan-out when positive.
	Timeout time.Duration
}

// Report describes what a fan-out did.
type Report struct {
	Triggered    bool
	Recipients   int
	EmailsSent   int
	EmailsFailed int
	Posted       bool
	PostID       string
	PostErr      error
	// Err is set when the fan-out stopped early.
	Err error
}

// IsApprovalTransition is true only when an article goes from unapproved to
// approved.
func IsApprovalTransition(previous bool, current bool) bool {
	return !previous && current
}

// ArticleSaved runs the fan-out if saving article approved it. previous is the
// approval flag persisted before the save.
func (p *Pipeline) ArticleSaved(ctx context.Context, previous bool, article *model.Article) Report {
	if !IsApprovalTransition(previous, article.IsApproved) {
		return Report{}
	}
	return p.Notify(ctx, article.Id)
}

// Notify announces the article to the readers subscribed to its publisher.
func (p *Pipeline) Notify(ctx context.Context, articleID string) (report Report) {
	report.Triggered = true
	log := Logger.Log.WithField("article_id", articleID)
	defer func() {
		if r := recover(); r != nil {
			report.Err = fmt.Errorf("notification panicked: %v", r)
			log.Error(report.Err)
		}
	}()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	p.count(metricFanout)

	var article model.Article
	if err := p.DB.WithContext(ctx).Preload("Author").Preload("Publisher").First(&article, "id = ?", articleID).Error; err != nil {
		report.Err = errors.Wrap(err, "fail to load approved article")
		log.Error(report.Err)
		return report
	}
	readers, err := p.subscribedReaders(ctx, &article)
	if err != nil {
		report.Err = err
		log.Error(err)
		return report
	}
	report.Recipients = len(readers)
	if len(readers) == 0 {
		return report
	}

	url := ArticleURL(p.BaseURL, article.Id)
	p.post(ctx, &article, url, &report)

	html, err := renderApprovedEmail(&article, url)
	if err != nil {
		report.Err = err
		log.Error(err)
		return report
	}
	for _, reader := range readers {
		err := p.Mailer.Send(ctx, clients.Email{
			From:    p.From,
			To:      []string{reader.Email},
			Subject: subject(&article),
			Body:    plainBody,
			HTML:    html,
		})
		if err != nil {
			report.EmailsFailed++
			p.count(metricEmailFailed)
			log.WithField("recipient", reader.Email).Errorf("fail to send approval email: %s", err)
			continue
		}
		report.EmailsSent++
		p.count(metricEmailSent)
	}
	log.Infof("approval fan-out done, %d/%d emails sent, posted: %t", report.EmailsSent, report.Recipients, report.Posted)
	return report
}

// post failures never stop the emails.
func (p *Pipeline) post(ctx context.Context, article *model.Article, url string, report *Report) {
	if p.Poster == nil {
		return
	}
	text := TweetText(article.PublisherName(), article.AuthorUsername(), article.Content, url)
	id, err := p.Poster.Post(ctx, text, "")
	if err != nil {
		report.PostErr = err
		p.count(metricPostFailed)
		Logger.Log.WithField("article_id", article.Id).WithField("channel", fmt.Sprintf("%T", p.Poster)).
			Errorf("fail to post approval announcement: %s", err)
		return
	}
	report.Posted = true
	report.PostID = id
	p.count(metricPostSent)
}

func (p *Pipeline) subscribedReaders(ctx context.Context, article *model.Article) ([]model.User, error) {
	readers := []model.User{}
	if article.PublisherID == nil {
		return readers, nil
	}
	db := p.DB.WithContext(ctx)
	subscribers := db.Session(&gorm.Session{NewDB: true}).
		Table("reader_publisher_subscriptions").Select("user_id").Where("publisher_id = ?", *article.PublisherID)
	err := db.Where("id IN (?) AND role = ?", subscribers, model.RoleReader).Order("email").Find(&readers).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to load subscribed readers")
	}
	return readers, nil
}

func (p *Pipeline) count(name string) {
	if p.Metrics == nil {
		return
	}
	if err := p.Metrics.Incr(name, nil, 1); err != nil {
		Logger.Log.Debugf("fail to emit %s: %s", name, err)
	}
}
