// Package wanikani aggregates recently-studied vocabulary from the
// WaniKani v2 REST API: resolve which subjects were touched since a
// cutoff, look the subjects up in batches, and keep the vocabulary slugs.
package wanikani

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.wanikani.com/v2"

	// batchSize is the hard upper bound the API imposes on the number of
	// IDs in one subjects call.
	batchSize = 1000
)

// Config holds client settings.
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// DefaultConfig returns sensible defaults for the given token.
func DefaultConfig(token string) Config {
	return Config{
		Token:   token,
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Client issues authenticated calls against one API root. Construct it
// once at startup and pass the handle to every call site; it holds no
// per-request state and is safe for sequential reuse across aggregations.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client. A non-empty token must be present before any
// network call is attempted; its absence is reported as ErrMissingToken.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}
