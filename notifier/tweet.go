package notifier

import (
	"fmt"
	"strings"
)

const (
	// TweetBudget is the longest post sent unabridged.
	TweetBudget = 150
	// TweetContentBudget is how much content is kept once a post is abridged.
	TweetContentBudget = TweetBudget - 50
)

// ArticleURL is the reader facing page of an article.
func ArticleURL(baseURL string, articleID string) string {
	return fmt.Sprintf("%s/news/readers/view-article/%s/", strings.TrimRight(baseURL, "/"), articleID)
}

// TweetText announces an article. When the full announcement is longer than
// TweetBudget runes the content is cut to TweetContentBudget runes and a link
// to the article replaces the rest.
func TweetText(publisherName string, journalistUsername string, content string, articleURL string) string {
	full := fmt.Sprintf("New Article Published by %s:\nJournalist: %s\n\nContent: %s", publisherName, journalistUsername, content)
	if len([]rune(full)) <= TweetBudget {
		return full
	}

	runes := []rune(content)
	if len(runes) > TweetContentBudget {
		runes = runes[:TweetContentBudget]
	}
	return fmt.Sprintf(
		"New Article Published by %s:\nJournalist: %s\n\nContent: %s...\nRead more at: %s",
		publisherName, journalistUsername, string(runes), articleURL,
	)
}
