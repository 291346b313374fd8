package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the on-demand revalidation route of the public renderer so a
// changed page is rebuilt instead of waiting for its cache to expire.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewClient(baseURL, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type RevalidateRequest struct {
	Path string `json:"path"`
}

func (c *Client) Revalidate(ctx context.Context, path string) error {
	url := fmt.Sprintf("%s/api/revalidate", c.baseURL)

	body, err := json.Marshal(RevalidateRequest{Path: path})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"renderer revalidate error: path=%s status=%d body=%s",
			path,
			resp.StatusCode,
			string(b),
		)
	}

	return nil
}
