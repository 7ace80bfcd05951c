// Package client wraps the HiveCore gateway APIs: the management API used by
// the polling loop and the inference API used for model actions and console
// prompts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient is a thin JSON-over-HTTP helper that attaches the bearer
// credential to every request.
type HTTPClient struct {
	base   string
	token  string
	client *http.Client
}

// NewHTTPClient creates a client for the given base URL and bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do issues a request with the auth header and optional JSON body. Extra
// headers are applied last. Non-2xx statuses are returned as errors with the
// body drained and closed.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.base + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
	return resp, nil
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// GetJSON performs a GET and decodes the JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// PostJSON performs a POST with a JSON body and decodes the response into out
// (skipped when out is nil).
func (c *HTTPClient) PostJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Stream issues a request and hands the raw body back to the caller, who owns
// closing it. Used for NDJSON action streams; the request is bound to ctx so
// cancelling it aborts the read.
func (c *HTTPClient) Stream(ctx context.Context, method, path string, body any, headers map[string]string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
