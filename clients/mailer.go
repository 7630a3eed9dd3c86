package clients

import (
	"context"
	"strings"

	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Email is a message with a plain text body and an optional HTML alternative.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	HTML    string
}

// SMTPMailer delivers through an SMTP relay, one connection per message.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username string, password string, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", fromOrDefault(email.From, m.from))
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)
	if email.HTML != "" {
		msg.AddAlternative("text/html", email.HTML)
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrapf(err, "fail to send email to %s", strings.Join(email.To, ","))
	}
	return nil
}

// SESMailer delivers through Amazon SES.
type SESMailer struct {
	client sesiface.SESAPI
	from   string
}

func NewSESMailer(region string, from string) (*SESMailer, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create aws session")
	}
	return NewSESMailerWithClient(ses.New(sess), from), nil
}

func NewSESMailerWithClient(client sesiface.SESAPI, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

func (m *SESMailer) Send(ctx context.Context, email Email) error {
	body := &ses.Body{
		Text: &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.Body)},
	}
	if email.HTML != "" {
		body.Html = &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.HTML)}
	}
	_, err := m.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source:      aws.String(fromOrDefault(email.From, m.from)),
		Destination: &ses.Destination{ToAddresses: aws.StringSlice(email.To)},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return errors.Wrapf(err, "fail to send email to %s", strings.Join(email.To, ","))
	}
	return nil
}

// LogMailer only logs the messages, for development.
type LogMailer struct {
	from string
}

func NewLogMailer(from string) *LogMailer {
	return &LogMailer{from: from}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	Logger.Log.WithField("to", strings.Join(email.To, ",")).
		WithField("from", fromOrDefault(email.From, m.from)).
		Infof("email %q:\n%s", email.Subject, email.Body)
	return nil
}

func fromOrDefault(from string, fallback string) string {
	if from != "" {
		return from
	}
	return fallback
}
