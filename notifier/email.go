package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
)

const (
	plainBody = "This email requires an HTML-compatible client."

	approvedTemplate = `<!DOCTYPE html>
<html>
  <body>
    <h2>{{ .Article.Title }}</h2>
    <p>
      Published by <strong>{{ .Article.PublisherName }}</strong>
      {{- with .Article.AuthorUsername }}, written by {{ . }}{{ end }}
    </p>
    <p>{{ .Article.Content }}</p>
    <p><a href="{{ .URL }}">Read the full article</a></p>
  </body>
</html>
`
)

var approvedEmail = template.Must(template.New("approved").Parse(approvedTemplate))

func subject(article *model.Article) string {
	return fmt.Sprintf("New Article has been published by %s", article.PublisherName())
}

func renderApprovedEmail(article *model.Article, url string) (string, error) {
	var buf bytes.Buffer
	err := approvedEmail.Execute(&buf, struct {
		Article *model.Article
		URL     string
	}{article, url})
	if err != nil {
		return "", errors.Wrap(err, "fail to render approval email")
	}
	return buf.String(), nil
}
