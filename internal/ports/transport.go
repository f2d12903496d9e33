package ports

import (
	"context"
	"encoding/json"
	"net/url"
)

// Transport issues a single idempotent request to the backend and returns
// the raw JSON payload. Implementations classify failures as
// *domain.TransportError. Retries are the caller's responsibility.
type Transport interface {
	// Request performs a GET for the given logical path ("redeem", "feed",
	// "version") with the given query parameters. A cache-busting timestamp
	// parameter is appended by the implementation.
	Request(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
}
