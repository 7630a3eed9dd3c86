package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const PostTweetUri = "https://api.twitter.com/2/tweets"

// PostError is returned when Twitter answers anything but 201 Created.
type PostError struct {
	StatusCode int
	Body       string
}

func (e *PostError) Error() string {
	return fmt.Sprintf("twitter rejected the post: %d, %s", e.StatusCode, e.Body)
}

type TwitterClient struct {
	// HttpClient that is used to actually make request
	client *HttpClient

	endpoint string
}

// NewTwitterClient posts on behalf of the account owning accessToken, an
// OAuth2 user context token.
func NewTwitterClient(ctx context.Context, accessToken string) *TwitterClient {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	return NewTwitterClientWithHttpClient(httpClient, PostTweetUri)
}

// NewTwitterClientWithHttpClient sends the tweets to endpoint through client.
func NewTwitterClientWithHttpClient(client *http.Client, endpoint string) *TwitterClient {
	return &TwitterClient{
		client:   NewHttpClient(http.Header{}, client),
		endpoint: endpoint,
	}
}

type tweetMedia struct {
	MediaIds []string `json:"media_ids"`
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetResponse struct {
	Data struct {
		Id   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Post publishes text, with the already uploaded media attached when mediaID
// is not empty, and returns the id of the new tweet.
func (t *TwitterClient) Post(ctx context.Context, text string, mediaID string) (string, error) {
	payload := tweetRequest{Text: text}
	if mediaID != "" {
		payload.Media = &tweetMedia{MediaIds: []string{mediaID}}
	}

	res, err := t.client.PostJSON(ctx, t.endpoint, payload)
	if err != nil {
		return "", errors.Wrap(err, "fail to reach twitter")
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "fail to read twitter response")
	}
	if res.StatusCode != http.StatusCreated {
		if IsNon200HttpResponse(res) {
			LogNon200HttpError(res, body)
		}
		return "", &PostError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var parsed tweetResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "fail to parse twitter response")
	}
	return parsed.Data.Id, nil
}
