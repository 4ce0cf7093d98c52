package discolinks

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/discolinks/discolinks/internal/constants"
	"github.com/discolinks/discolinks/internal/httpclient"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Config holds the configuration for the API client.
// Zero values fall back to the package defaults.
type Config struct {
	BaseURL     string        // Token, listing and asset endpoints
	PlaybackURL string        // Playback manifest endpoint, video id is appended
	UserAgent   string        // Sent with every request
	Timeout     time.Duration // Per-request timeout, ignored when HTTPClient is set
	HTTPClient  *http.Client  // Optional: custom transport
	Logger      *log.Logger   // Optional: defaults to a text logger on stderr
}

// Client is the main API client. It holds the bearer token obtained by AcquireToken.
type Client struct {
	config      Config
	httpClient  *httpclient.Client
	baseURL     string
	playbackURL string
	logger      *log.Logger
}

// NewClient creates a new API client.
func NewClient(config Config) (*Client, error) {
	baseURL, err := normalizeURL(config.BaseURL, constants.DefaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL provided: %w", err)
	}
	playbackURL, err := normalizeURL(config.PlaybackURL, constants.DefaultPlaybackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid PlaybackURL provided: %w", err)
	}

	userAgent := strings.TrimSpace(config.UserAgent)
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New()
		logger.SetFormatter(&log.TextFormatter{})
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.InfoLevel)
	}

	return &Client{
		config:      config,
		httpClient:  httpclient.New(userAgent, timeout, config.HTTPClient),
		baseURL:     baseURL,
		playbackURL: playbackURL,
		logger:      logger,
	}, nil
}

func normalizeURL(raw, fallback string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", err
	}
	return strings.TrimRight(raw, "/"), nil
}

// SetAuthToken allows manually setting the bearer token (e.g. one obtained elsewhere).
func (c *Client) SetAuthToken(token string) {
	c.httpClient.SetAuthToken(token)
}

// GetCurrentToken returns the currently stored bearer token.
func (c *Client) GetCurrentToken() string {
	return c.httpClient.AuthToken()
}

// Realms returns the known realm names, default first.
func Realms() []string {
	return append([]string(nil), constants.Realms...)
}

// ValidateRealm checks realm against the known set.
func ValidateRealm(realm string) error {
	for _, known := range constants.Realms {
		if realm == known {
			return nil
		}
	}
	return fmt.Errorf("%w %q, must be one of: %s", coreErrors.ErrUnknownRealm, realm, strings.Join(constants.Realms, ", "))
}

// classifyStatus turns a non-200 status into the error taxonomy.
func classifyStatus(resp *httpclient.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return coreErrors.ErrNotFound
	default:
		return coreErrors.NewHTTPError(resp.StatusCode, resp.Body)
	}
}
