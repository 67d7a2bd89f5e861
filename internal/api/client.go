// Package api is the HTTP boundary to the library server. It owns request
// construction, bearer-token injection, and error normalization; it never
// decides navigation or stores state.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Biblio/1.0"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenSource yields the current access token for outgoing requests.
// The session manager owns the only writer; the client only reads.
type TokenSource interface {
	AccessToken() string
}

// Client is the library server API client
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: trimSlash(baseURL),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// do performs one authenticated request. Exactly one attempt: no retry,
// no backoff. A bearer header is attached only when a token is present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := normalizeError(resp.StatusCode, respBody)
		c.logger.Error("api request error", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return respBody, nil
}

// get issues a GET and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

// post issues a POST with a JSON body and decodes the response into dest
// when dest is non-nil.
func (c *Client) post(ctx context.Context, path string, payload, dest interface{}) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decode(body, dest)
}

// put issues a PUT with a JSON body and decodes the response into dest.
func (c *Client) put(ctx context.Context, path string, payload, dest interface{}) error {
	body, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decode(body, dest)
}

// delete issues a DELETE. The server responds 204 with an empty body.
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func decode(body []byte, dest interface{}) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
