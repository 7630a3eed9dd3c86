package clients

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTwitterClientPostsTweet(t *testing.T) {
	var got map[string]interface{}
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := ioutil.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"hello"}}`))
	}))
	defer server.Close()

	ctx := context.Background()
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret", TokenType: "Bearer"}))
	client := NewTwitterClientWithHttpClient(httpClient, server.URL)

	id, err := client.Post(ctx, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "1445880548472328192", id)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, map[string]interface{}{"text": "hello"}, got)

	_, err = client.Post(ctx, "with media", "42")
	require.NoError(t, err)
	want := map[string]interface{}{
		"text":  "with media",
		"media": map[string]interface{}{"media_ids": []interface{}{"42"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected payload (-want +got):\n%s", diff)
	}
}

func TestTwitterClientRejectedPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"suspended"}`))
	}))
	defer server.Close()

	client := NewTwitterClientWithHttpClient(server.Client(), server.URL)
	_, err := client.Post(context.Background(), "hello", "")
	require.Error(t, err)

	var postErr *PostError
	require.ErrorAs(t, err, &postErr)
	assert.Equal(t, http.StatusForbidden, postErr.StatusCode)
	assert.Contains(t, postErr.Body, "suspended")
}

func TestSlackPoster(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := NewSlackPoster(server.URL).Post(context.Background(), "breaking", "")
	require.NoError(t, err)
	assert.Equal(t, "breaking", got["text"])
	assert.Len(t, got["blocks"], 1)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer failing.Close()
	_, err = NewSlackPoster(failing.URL).Post(context.Background(), "breaking", "")
	assert.Error(t, err)
}

type fakeSES struct {
	sesiface.SESAPI
	inputs []*ses.SendEmailInput
}

func (f *fakeSES) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESMailer(t *testing.T) {
	fake := &fakeSES{}
	mailer := NewSESMailerWithClient(fake, "news@example.com")

	err := mailer.Send(context.Background(), Email{
		To:      []string{"reader@example.com"},
		Subject: "New Article has been published by Planet",
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	input := fake.inputs[0]
	assert.Equal(t, "news@example.com", aws.StringValue(input.Source))
	assert.Equal(t, []string{"reader@example.com"}, aws.StringValueSlice(input.Destination.ToAddresses))
	assert.Equal(t, "plain", aws.StringValue(input.Message.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.StringValue(input.Message.Body.Html.Data))
}

func TestSMTPMailerHonoursCancelledContext(t *testing.T) {
	mailer := NewSMTPMailer("127.0.0.1", 1, "", "", "news@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mailer.Send(ctx, Email{To: []string{"a@example.com"}}), context.Canceled)
}

func TestNoopPosterAndLogMailer(t *testing.T) {
	id, err := NoopPoster{}.Post(context.Background(), "x", "")
	assert.NoError(t, err)
	assert.Empty(t, id)
	assert.NoError(t, NewLogMailer("news@example.com").Send(context.Background(), Email{To: []string{"a@example.com"}, Subject: "s"}))
}
