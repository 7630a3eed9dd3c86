package clients

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const slackContentLimit = 600

// SlackPoster announces posts on a channel through an incoming webhook.
// Webhooks don't hand back a message id, Post returns an empty one.
type SlackPoster struct {
	webhookUrl string
}

func NewSlackPoster(webhookUrl string) *SlackPoster {
	return &SlackPoster{webhookUrl: webhookUrl}
}

func buildContentWithShowMore(text string) string {
	runes := []rune(text)
	if len(runes) > slackContentLimit {
		return fmt.Sprintf("%s...", string(runes[:slackContentLimit]))
	}
	return text
}

func (s *SlackPoster) Post(ctx context.Context, text string, mediaID string) (string, error) {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", buildContentWithShowMore(text), false, false), nil, nil),
	}
	if mediaID != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("media: %s", mediaID), false, false)))
	}
	msg := &slack.WebhookMessage{
		Text:   text,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	if err := slack.PostWebhookContext(ctx, s.webhookUrl, msg); err != nil {
		return "", errors.Wrap(err, "fail to post slack webhook")
	}
	return "", nil
}

// NoopPoster drops every post, used when no social channel is configured.
type NoopPoster struct{}

func (NoopPoster) Post(ctx context.Context, text string, mediaID string) (string, error) {
	return "", nil
}
