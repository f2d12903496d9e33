package transport

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Config holds the settings for the composite transport client.
type Config struct {
	// BackendURL is the backend base URL.
	BackendURL string

	// EnableFallback turns on the callback-convention path when the direct
	// path fails.
	EnableFallback bool

	// CallbackTimeout bounds the fallback wait. Zero means the default.
	CallbackTimeout time.Duration
}

// Client is the two-path transport: direct first, callback fallback on any
// direct failure. Both paths are idempotent GETs; the client never retries
// on its own.
type Client struct {
	direct   *Direct
	fallback *Fallback
	logger   log.Logger
}

// NewClient creates a transport client. httpClient may be nil, in which
// case http.DefaultClient is used for both paths.
func NewClient(cfg Config, httpClient ports.HTTPClient, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	c := &Client{
		direct: NewDirect(cfg.BackendURL, httpClient),
		logger: logger,
	}
	if cfg.EnableFallback {
		c.fallback = NewFallback(cfg.BackendURL, httpClient, cfg.CallbackTimeout)
	}
	return c
}

// Request issues the request on the direct path, falling back to the
// callback path on failure when the fallback is enabled.
func (c *Client) Request(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	payload, err := c.direct.Request(ctx, path, params)
	if err == nil {
		return payload, nil
	}
	if c.fallback == nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, err
	}
	c.logger.Debug("direct transport failed, trying callback fallback",
		log.String("path", path), log.Err(err))
	return c.fallback.Request(ctx, path, params)
}

// Pending returns the fallback's registered callback count, zero when the
// fallback is disabled.
func (c *Client) Pending() int {
	if c.fallback == nil {
		return 0
	}
	return c.fallback.Pending()
}
