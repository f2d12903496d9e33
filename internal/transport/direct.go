// Package transport implements the resilient request path to the backend:
// a direct HTTP GET, and a callback-convention fallback used when the direct
// path fails.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
)

// cacheBusterParam defeats intermediary caching on every request.
const cacheBusterParam = "t"

// Direct issues plain HTTP GETs against the backend base URL.
type Direct struct {
	base   string
	client ports.HTTPClient
	now    func() time.Time
}

// NewDirect creates a direct transport for the given base URL.
func NewDirect(base string, client ports.HTTPClient) *Direct {
	if client == nil {
		client = http.DefaultClient
	}
	return &Direct{base: base, client: client, now: time.Now}
}

// Request performs GET <base>?path=<path>&<params>&t=<millis> and returns
// the raw JSON body.
func (d *Direct) Request(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	u, err := buildURL(d.base, path, params, d.now())
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, classifyRequestError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return nil, &domain.TransportError{
			Kind:   domain.TransportHTTPStatus,
			Status: resp.StatusCode,
			Path:   path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyRequestError(path, err)
	}
	if !json.Valid(body) {
		return nil, &domain.TransportError{
			Kind: domain.TransportProtocol,
			Path: path,
			Err:  fmt.Errorf("response is not valid JSON"),
		}
	}
	return json.RawMessage(body), nil
}

// buildURL assembles the backend URL with the logical path, caller params,
// and the cache-busting timestamp.
func buildURL(base, path string, params url.Values, now time.Time) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("path", path)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set(cacheBusterParam, strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// classifyRequestError maps a client error to the transport taxonomy.
func classifyRequestError(path string, err error) *domain.TransportError {
	kind := domain.TransportNetwork
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.TransportTimeout
	case errors.As(err, &ne) && ne.Timeout():
		kind = domain.TransportTimeout
	}
	return &domain.TransportError{Kind: kind, Path: path, Err: err}
}
