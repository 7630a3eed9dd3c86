package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/clients"
	"github.com/Luismorlan/newsdesk/notifier"
	"github.com/Luismorlan/newsdesk/utils"
	. "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "http://127.0.0.1:8000"
	defaultFrom    = "no-reply@newsdesk.local"
)

func envOrDefault(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func baseURL() string {
	return strings.TrimRight(envOrDefault("APP_BASE_URL", defaultBaseURL), "/")
}

// newMailer picks the mail backend from MAIL_BACKEND, smtp, ses or log.
func newMailer() (notifier.Mailer, error) {
	from := envOrDefault("MAIL_FROM", defaultFrom)
	switch backend := envOrDefault("MAIL_BACKEND", "log"); backend {
	case "smtp":
		port, err := strconv.Atoi(envOrDefault("SMTP_PORT", "587"))
		if err != nil {
			return nil, errors.Wrap(err, "invalid SMTP_PORT")
		}
		return clients.NewSMTPMailer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"), from), nil
	case "ses":
		return clients.NewSESMailer(envOrDefault("AWS_REGION", "us-west-1"), from)
	case "log":
		return clients.NewLogMailer(from), nil
	default:
		return nil, errors.Errorf("unknown MAIL_BACKEND %q", backend)
	}
}

// newPoster picks the social channel from SOCIAL_BACKEND, twitter, slack or
// none.
func newPoster(ctx context.Context) (notifier.Poster, error) {
	switch backend := envOrDefault("SOCIAL_BACKEND", "none"); backend {
	case "twitter":
		token := os.Getenv("TWITTER_ACCESS_TOKEN")
		if token == "" {
			return nil, errors.New("TWITTER_ACCESS_TOKEN is not set")
		}
		return clients.NewTwitterClient(ctx, token), nil
	case "slack":
		url := os.Getenv("SLACK_WEBHOOK_URL")
		if url == "" {
			return nil, errors.New("SLACK_WEBHOOK_URL is not set")
		}
		return clients.NewSlackPoster(url), nil
	case "none":
		return clients.NoopPoster{}, nil
	default:
		return nil, errors.Errorf("unknown SOCIAL_BACKEND %q", backend)
	}
}

func notifyTimeout() (time.Duration, error) {
	raw := os.Getenv("NOTIFY_TIMEOUT")
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrap(err, "invalid NOTIFY_TIMEOUT")
	}
	return d, nil
}

// newResetSessionStore uses redis when it is configured, process memory
// otherwise.
func newResetSessionStore(ctx context.Context) (accounts.ResetSessionStore, error) {
	client, err := utils.GetRedisClient(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		Log.Warn("REDIS_HOST is not set, reset sessions are kept in memory")
		return accounts.NewMemoryResetSessionStore(), nil
	}
	return accounts.NewRedisResetSessionStore(client), nil
}

func allowedOrigins() []string {
	res := []string{}
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			res = append(res, origin)
		}
	}
	return res
}
