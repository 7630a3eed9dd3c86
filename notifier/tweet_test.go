package notifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8000/news/readers/view-article/abc/", ArticleURL("http://127.0.0.1:8000/", "abc"))
	assert.Equal(t, "https://news.example.com/news/readers/view-article/abc/", ArticleURL("https://news.example.com", "abc"))
}

func TestTweetTextShortContentIsUnabridged(t *testing.T) {
	text := TweetText("Planet", "kent", "Short story.", "http://x/a/")
	assert.Equal(t, "New Article Published by Planet:\nJournalist: kent\n\nContent: Short story.", text)
	assert.NotContains(t, text, "Read more at")
}

func TestTweetTextBoundary(t *testing.T) {
	prefix := "New Article Published by P:\nJournalist: j\n\nContent: "
	exact := strings.Repeat("a", TweetBudget-len(prefix))
	assert.Equal(t, prefix+exact, TweetText("P", "j", exact, "u"))

	over := exact + "a"
	// content shorter than the content budget is kept whole, the link is still added
	assert.Equal(t, prefix+over+"...\nRead more at: u", TweetText("P", "j", over, "u"))
}

func TestTweetTextLongContentIsTruncated(t *testing.T) {
	content := strings.Repeat("é", 400)
	url := "http://127.0.0.1:8000/news/readers/view-article/1/"
	text := TweetText("Planet", "kent", content, url)

	assert.True(t, strings.HasSuffix(text, "...\nRead more at: "+url))
	assert.Contains(t, text, "Content: "+strings.Repeat("é", TweetContentBudget)+"...")
	assert.NotContains(t, text, strings.Repeat("é", TweetContentBudget+1))
	assert.Equal(t, "New Article Published by Planet:\nJournalist: kent\n\nContent: "+strings.Repeat("é", TweetContentBudget)+"...\nRead more at: "+url, text)
}
