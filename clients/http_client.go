package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/pkg/errors"
)

type HttpClient struct {
	header http.Header

	client *http.Client
}

// NewHttpClient wraps client, every request carries header.
func NewHttpClient(header http.Header, client *http.Client) *HttpClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HttpClient{header: header, client: client}
}

// PostJSON encodes payload as the request body.
func (c *HttpClient) PostJSON(ctx context.Context, uri string, payload interface{}) (*http.Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "fail to encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrapf(err, "fail to build POST %s", uri)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

// LogNon200HttpError logs the status and the already read body of a failed
// response.
func LogNon200HttpError(res *http.Response, body []byte) {
	Logger.Log.WithField("status", res.StatusCode).
		Errorf("non-200 http code from %s, response body is: %s", res.Request.URL.Host, string(body))
}
