package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/go-querystring/query"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Client manages making HTTP requests to the API.
type Client struct {
	userAgent  string
	httpClient *http.Client
	mu         sync.RWMutex // Protects token
	authToken  string
}

// New creates a new internal HTTP client. A nil httpClient gets one with the given timeout.
func New(userAgent string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// SetAuthToken updates the bearer token. An empty token removes the header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// AuthToken returns the current bearer token.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// Response is an unclassified HTTP answer: status code plus the full body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the body into target. Undecodable bodies are malformed responses.
func (r *Response) Decode(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("%w: can not unmarshal JSON: %v", coreErrors.ErrMalformedResponse, err)
	}
	return nil
}

// Get makes a GET request against endpoint, encoding params (a struct with `url` tags) as query string.
// Only transport failures are returned as errors (wrapping ErrConnection); status codes are left to the caller.
func (c *Client) Get(ctx context.Context, endpoint string, params interface{}) (*Response, error) {
	fullURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", endpoint, err)
	}

	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query parameters: %w", err)
		}
		fullURL.RawQuery = v.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if token := c.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation is not a connection problem; keep it recognisable for callers.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: GET %s: %v", coreErrors.ErrConnection, fullURL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read body of GET %s: %v", coreErrors.ErrConnection, fullURL.Path, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
